// Package models defines the wire types shared between the Codenames client
// and the remote rules engine, plus the client-side seat configuration.
//
// The engine is the single source of truth; the client never mutates a game
// directly. Every type here mirrors the engine's JSON schema, so field names
// track the wire format rather than Go conventions where they differ.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TeamColor identifies one of the two playing teams.
type TeamColor string

const (
	TeamRed  TeamColor = "RED"
	TeamBlue TeamColor = "BLUE"
)

// Opponent returns the other team.
func (t TeamColor) Opponent() TeamColor {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// CardColor is the identity of a board card. Unrevealed cards in the
// operative projection carry no color at all (nil pointer on Card).
type CardColor string

const (
	CardRed   CardColor = "RED"
	CardBlue  CardColor = "BLUE"
	CardGray  CardColor = "GRAY"
	CardBlack CardColor = "BLACK"
)

// PlayerRole is the role on move within a turn.
type PlayerRole string

const (
	RoleHinter  PlayerRole = "HINTER"
	RoleGuesser PlayerRole = "GUESSER"
)

// Card is one cell of the board. Color is nil when the engine redacted it
// (operative projection, card not yet revealed).
type Card struct {
	Index    int        `json:"index"`
	Word     string     `json:"word"`
	Color    *CardColor `json:"color"`
	Revealed bool       `json:"revealed"`
}

// TeamScore counts revealed cards against the team's total.
type TeamScore struct {
	Revealed int `json:"revealed"`
	Total    int `json:"total"`
}

// Unrevealed returns how many of the team's cards are still hidden.
func (s TeamScore) Unrevealed() int { return s.Total - s.Revealed }

// Score holds both teams' progress.
type Score struct {
	Red  TeamScore `json:"red"`
	Blue TeamScore `json:"blue"`
}

// TurnInfo describes whose turn it is and how many guesses remain.
type TurnInfo struct {
	Team        TeamColor  `json:"team"`
	Role        PlayerRole `json:"role"`
	LeftGuesses int        `json:"left_guesses"`
}

// Hint is a spymaster clue as recorded by the engine.
type Hint struct {
	Word       string    `json:"word"`
	CardAmount int       `json:"card_amount"`
	TeamColor  TeamColor `json:"team_color"`
}

// WinningReason explains why a game ended.
type WinningReason string

const (
	ReasonTargetScoreReached WinningReason = "Target score reached"
	ReasonOpponentHitBlack   WinningReason = "Opponent hit black card"
	ReasonOpponentQuit       WinningReason = "Opponent quit"
)

// Winner identifies the winning team and why they won.
type Winner struct {
	TeamColor TeamColor     `json:"team_color"`
	Reason    WinningReason `json:"reason"`
}

// GameState is one projection of a game: a full snapshot as the engine is
// willing to show it to a given visibility level. The operative and spymaster
// projections of the same game differ only in Card.Color presence.
type GameState struct {
	GameID      string   `json:"game_id"`
	Board       []Card   `json:"board"`
	Score       Score    `json:"score"`
	CurrentTurn TurnInfo `json:"current_turn"`
	Hints       []Hint   `json:"hints"`
	LastHint    *Hint    `json:"last_hint"`
	IsGameOver  bool     `json:"is_game_over"`
	Winner      *Winner  `json:"winner"`
	BoardSize   int      `json:"board_size"`
	History     *History `json:"event_history,omitempty"`
}

// ConsistentWith reports whether two projections agree on every field except
// card color visibility. Used to verify the dual-projection invariant: a
// refresh must leave operative and spymaster snapshots structurally equal
// everywhere but color.
func (g *GameState) ConsistentWith(other *GameState) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.GameID != other.GameID ||
		g.Score != other.Score ||
		g.CurrentTurn != other.CurrentTurn ||
		g.IsGameOver != other.IsGameOver ||
		g.BoardSize != other.BoardSize ||
		len(g.Board) != len(other.Board) ||
		len(g.Hints) != len(other.Hints) {
		return false
	}
	if (g.Winner == nil) != (other.Winner == nil) {
		return false
	}
	if g.Winner != nil && *g.Winner != *other.Winner {
		return false
	}
	if (g.LastHint == nil) != (other.LastHint == nil) {
		return false
	}
	if g.LastHint != nil && *g.LastHint != *other.LastHint {
		return false
	}
	for i := range g.Hints {
		if g.Hints[i] != other.Hints[i] {
			return false
		}
	}
	for i := range g.Board {
		a, b := g.Board[i], other.Board[i]
		if a.Index != b.Index || a.Word != b.Word || a.Revealed != b.Revealed {
			return false
		}
	}
	return true
}

// History is the engine's event log, bucketed the way the wire carries it:
// one sequence per team plus a global one. Sequences are append-ordered and
// only ever grow.
type History struct {
	RedTeam  []Event `json:"red_team"`
	BlueTeam []Event `json:"blue_team"`
	Global   []Event `json:"global_events"`
}

// Sequences returns the three event buckets for callers that merge them.
func (h *History) Sequences() [][]Event {
	if h == nil {
		return nil
	}
	return [][]Event{h.RedTeam, h.BlueTeam, h.Global}
}

// ActorType distinguishes human users from model-driven players.
type ActorType string

const (
	ActorUser ActorType = "user"
	ActorLLM  ActorType = "llm"
)

// Actor is the party that performed a game action.
type Actor struct {
	ActorType ActorType `json:"actor_type"`
	Name      string    `json:"name"`
	Model     string    `json:"model,omitempty"` // Set only for LLM actors.
}

// EventType tags entries in a team's event history.
type EventType string

const (
	EventHintGiven       EventType = "hint_given"
	EventGuessMade       EventType = "guess_made"
	EventTurnPassed      EventType = "turn_passed"
	EventChatMessage     EventType = "chat_message"
	EventOperativeAction EventType = "operative_action"
)

// OperativeTool sub-tags operative_action events by the tool the model used.
type OperativeTool string

const (
	ToolTalk      OperativeTool = "talk"
	ToolVoteGuess OperativeTool = "vote_guess"
	ToolVotePass  OperativeTool = "vote_pass"
)

// GivenGuess records an operative guess and its outcome.
type GivenGuess struct {
	Word        string `json:"word,omitempty"`
	GuessedCard *Card  `json:"guessed_card,omitempty"`
	Correct     bool   `json:"correct"`
}

// EventTime wraps time.Time to accept the engine's timestamps, which are
// emitted as naive local ISO 8601 strings without a zone offset. RFC 3339
// input is accepted too; marshaling always emits RFC 3339.
type EventTime struct {
	time.Time
}

// eventTimeLayouts are tried in order when decoding an EventTime.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *EventTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range eventTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized event timestamp %q", s)
}

func (t EventTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Event is one entry of a team's history. The engine appends these
// server-side; the client only ever receives growing, append-ordered
// sequences per team. Exactly one of the payload fields is meaningful,
// selected by EventType.
type Event struct {
	EventType  EventType  `json:"event_type"`
	TeamColor  TeamColor  `json:"team_color"`
	PlayerRole PlayerRole `json:"player_role"`
	Actor      Actor      `json:"actor"`
	Timestamp  EventTime  `json:"timestamp"`

	Hint    *Hint         `json:"hint,omitempty"`    // hint_given
	Guess   *GivenGuess   `json:"guess,omitempty"`   // guess_made
	Message string        `json:"message,omitempty"` // chat_message, talk
	Tool    OperativeTool `json:"tool,omitempty"`    // operative_action
	Word    string        `json:"word,omitempty"`    // vote_guess
}
