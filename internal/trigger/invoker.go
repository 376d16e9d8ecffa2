// internal/trigger/invoker.go
package trigger

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/stream"
)

// StreamOpener starts an AI turn on the engine and returns its streamed
// response body. *engineclient.Client satisfies it.
type StreamOpener interface {
	AIHint(ctx context.Context, gameID, model string) (io.ReadCloser, error)
	AIGuess(ctx context.Context, gameID, model string, nOperatives int) (io.ReadCloser, error)
}

// Refresher re-synchronizes both cached projections of a game.
type Refresher interface {
	Refresh(ctx context.Context, gameID string) error
}

// AIInvoker drives an automated player's turn: it issues the hint or guess
// request and feeds the streamed response through the frame consumer. The
// call's only "result" is the side effect of the per-frame dual refreshes;
// frames are never applied differentially to cached state.
type AIInvoker struct {
	engine    StreamOpener
	refresher Refresher

	// OnFrame, when set, observes every decoded frame (for UI activity
	// display). It runs after the refresh for that frame.
	OnFrame func(gameID string, f stream.Frame)
}

// NewAIInvoker wires an AIInvoker to the engine and the refresher.
func NewAIInvoker(engine StreamOpener, refresher Refresher) *AIInvoker {
	return &AIInvoker{engine: engine, refresher: refresher}
}

// InvokeHint runs an AI spymaster turn for the given model.
func (a *AIInvoker) InvokeHint(ctx context.Context, gameID, model string) error {
	body, err := a.engine.AIHint(ctx, gameID, model)
	if err != nil {
		return fmt.Errorf("ai hint: %w", err)
	}
	return a.consume(ctx, gameID, body)
}

// InvokeGuess runs an AI operative turn for the given model.
func (a *AIInvoker) InvokeGuess(ctx context.Context, gameID, model string, nOperatives int) error {
	body, err := a.engine.AIGuess(ctx, gameID, model, nOperatives)
	if err != nil {
		return fmt.Errorf("ai guess: %w", err)
	}
	return a.consume(ctx, gameID, body)
}

// consume drains the streamed body, refreshing both projections once per
// frame. A failed refresh is logged and never aborts the stream — the next
// frame simply re-synchronizes. An unreadable body or a terminal error frame
// fails the invocation so the tracker can re-arm.
func (a *AIInvoker) consume(ctx context.Context, gameID string, body io.ReadCloser) error {
	defer body.Close()

	var streamErr error
	err := stream.Consume(ctx, body, func(f stream.Frame) error {
		if f.Type == stream.TypeError {
			streamErr = fmt.Errorf("engine reported: %s", f.Error)
		}
		if err := a.refresher.Refresh(ctx, gameID); err != nil {
			logrus.Warnf("Game %s: refresh after frame failed: %v", gameID, err)
		}
		if a.OnFrame != nil {
			a.OnFrame(gameID, f)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return streamErr
}
