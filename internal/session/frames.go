// internal/session/frames.go
package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jdai1/codenames/internal/models"
	"github.com/jdai1/codenames/internal/stream"
)

// framePayload is a permissive view over streamed frame payloads: operative
// tool actions carry "type", history-shaped events carry "event_type", and
// terminal frames carry "type" complete/error. Unknown fields are ignored.
type framePayload struct {
	Type    string       `json:"type"`
	Actor   models.Actor `json:"actor"`
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Word    string       `json:"word"`
	Error   string       `json:"error"`
}

// DescribeFrame renders one streamed frame as a human-readable activity
// line. Returns "" for frames with nothing worth showing.
func DescribeFrame(f stream.Frame) string {
	var ev models.Event
	if err := json.Unmarshal(f.Raw, &ev); err == nil && ev.EventType != "" {
		return DescribeEvent(ev)
	}

	var p framePayload
	if err := json.Unmarshal(f.Raw, &p); err != nil {
		return ""
	}
	switch p.Type {
	case stream.TypeComplete:
		return "turn complete"
	case stream.TypeError:
		return "stream error: " + firstNonEmpty(p.Error, f.Error, "unknown")
	case "talk":
		return fmt.Sprintf("[%s] %s", actorName(p.Actor, p.Name), p.Message)
	case "vote":
		return fmt.Sprintf("[%s] votes: %s", actorName(p.Actor, p.Name), strings.ToUpper(p.Word))
	case "pass":
		return fmt.Sprintf("[%s] votes: PASS", actorName(p.Actor, p.Name))
	}
	return ""
}

// DescribeEvent renders one history event as a log line. Shared by the
// stream activity feed and the per-team history view.
func DescribeEvent(ev models.Event) string {
	name := actorName(ev.Actor, "")
	switch ev.EventType {
	case models.EventHintGiven:
		if ev.Hint != nil {
			return fmt.Sprintf("[%s] %s hints: %s %d",
				ev.TeamColor, name, strings.ToUpper(ev.Hint.Word), ev.Hint.CardAmount)
		}
		return fmt.Sprintf("[%s] %s gave a hint", ev.TeamColor, name)
	case models.EventGuessMade:
		if ev.Guess != nil {
			word := ev.Guess.Word
			if word == "" && ev.Guess.GuessedCard != nil {
				word = ev.Guess.GuessedCard.Word
			}
			outcome := "wrong"
			if ev.Guess.Correct {
				outcome = "correct"
			}
			return fmt.Sprintf("[%s] %s guesses %s (%s)",
				ev.TeamColor, name, strings.ToUpper(word), outcome)
		}
		return fmt.Sprintf("[%s] %s made a guess", ev.TeamColor, name)
	case models.EventTurnPassed:
		return fmt.Sprintf("[%s] %s passed the turn", ev.TeamColor, name)
	case models.EventChatMessage:
		return fmt.Sprintf("[%s] %s: %s", ev.TeamColor, name, ev.Message)
	case models.EventOperativeAction:
		switch ev.Tool {
		case models.ToolTalk:
			return fmt.Sprintf("[%s] %s: %s", ev.TeamColor, name, ev.Message)
		case models.ToolVoteGuess:
			return fmt.Sprintf("[%s] %s votes: %s", ev.TeamColor, name, strings.ToUpper(ev.Word))
		case models.ToolVotePass:
			return fmt.Sprintf("[%s] %s votes: PASS", ev.TeamColor, name)
		}
		return fmt.Sprintf("[%s] %s acted", ev.TeamColor, name)
	}
	return ""
}

func actorName(a models.Actor, fallback string) string {
	if a.Name != "" {
		return a.Name
	}
	if fallback != "" {
		return fallback
	}
	return "agent"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
