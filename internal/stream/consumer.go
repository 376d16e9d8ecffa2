// Package stream consumes the engine's streamed AI-turn responses: a byte
// stream of newline-delimited frames, each a "data: " marker followed by a
// JSON payload.
//
// Frames may arrive split at arbitrary chunk boundaries, including mid-frame
// and mid-rune; the consumer buffers raw bytes and only interprets complete
// lines, so splits are invisible to the handler. Frames are handled strictly
// one at a time in arrival order.
package stream

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
)

// FramePrefix marks a frame-carrying line.
const FramePrefix = "data: "

// Terminal frame types. A frame carrying one of these stops consumption even
// if the underlying stream has more bytes.
const (
	TypeComplete = "complete"
	TypeError    = "error"
)

// Frame is one decoded unit of a streamed response. Raw always holds the
// full payload; Type and Error are extracted from it when present.
type Frame struct {
	Type  string          `json:"type"`
	Error string          `json:"error"`
	Raw   json.RawMessage `json:"-"`
}

// Terminal reports whether this frame ends the stream.
func (f Frame) Terminal() bool {
	return f.Type == TypeComplete || f.Type == TypeError
}

// Handler receives each decoded frame. Consume waits for it to return before
// touching the next frame; returning an error aborts consumption.
type Handler func(Frame) error

// Consume reads r until exhaustion, early termination, or ctx cancellation,
// invoking onFrame for every well-formed frame in order. A line that carries
// the marker but not valid JSON is logged and skipped; consumption continues.
// A final marker-prefixed line without a trailing newline is processed as a
// complete frame.
func Consume(ctx context.Context, r io.Reader, onFrame Handler) error {
	var pending []byte
	chunk := make([]byte, 4096)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := r.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
			for {
				nl := indexNewline(pending)
				if nl < 0 {
					break
				}
				line := pending[:nl]
				pending = pending[nl+1:]
				frame, ok := decodeLine(line)
				if !ok {
					continue
				}
				if err := onFrame(frame); err != nil {
					return err
				}
				if frame.Terminal() {
					return nil
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	// The producer may omit the trailing newline on the last frame.
	if frame, ok := decodeLine(pending); ok {
		if err := onFrame(frame); err != nil {
			return err
		}
	}
	return nil
}

func indexNewline(b []byte) int {
	for i, c := range b {
		if c == '\n' {
			return i
		}
	}
	return -1
}

// decodeLine extracts a frame from one complete line. Lines without the
// marker (blank separators, comments) are ignored without logging; marked
// lines with malformed JSON are logged and dropped, never fatal.
func decodeLine(line []byte) (Frame, bool) {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	if len(line) < len(FramePrefix) || string(line[:len(FramePrefix)]) != FramePrefix {
		return Frame{}, false
	}
	payload := line[len(FramePrefix):]
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		logrus.Warnf("stream: skipping malformed frame %q: %v", payload, err)
		return Frame{}, false
	}
	frame.Raw = append(json.RawMessage(nil), payload...)
	return frame, true
}
