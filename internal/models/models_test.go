// internal/models/models_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamColorOpponent(t *testing.T) {
	assert.Equal(t, TeamBlue, TeamRed.Opponent())
	assert.Equal(t, TeamRed, TeamBlue.Opponent())
}

func TestTeamScoreUnrevealed(t *testing.T) {
	assert.Equal(t, 6, TeamScore{Revealed: 3, Total: 9}.Unrevealed())
	assert.Equal(t, 0, TeamScore{Revealed: 8, Total: 8}.Unrevealed())
}

func sampleState(redact bool) *GameState {
	red, blue := CardRed, CardBlue
	board := []Card{
		{Index: 0, Word: "ocean", Color: &red},
		{Index: 1, Word: "piano", Color: &blue},
		{Index: 2, Word: "crane", Color: &red, Revealed: true},
	}
	if redact {
		redacted := make([]Card, len(board))
		for i, c := range board {
			if !c.Revealed {
				c.Color = nil
			}
			redacted[i] = c
		}
		board = redacted
	}
	return &GameState{
		GameID:      "g1",
		Board:       board,
		Score:       Score{Red: TeamScore{Revealed: 1, Total: 2}, Blue: TeamScore{Total: 1}},
		CurrentTurn: TurnInfo{Team: TeamRed, Role: RoleGuesser, LeftGuesses: 2},
		LastHint:    &Hint{Word: "water", CardAmount: 2, TeamColor: TeamRed},
		Hints:       []Hint{{Word: "water", CardAmount: 2, TeamColor: TeamRed}},
		BoardSize:   3,
	}
}

func TestConsistentWithIgnoresColors(t *testing.T) {
	spy := sampleState(false)
	op := sampleState(true)
	assert.True(t, op.ConsistentWith(spy))
	assert.True(t, spy.ConsistentWith(op))
}

func TestConsistentWithDetectsDrift(t *testing.T) {
	base := sampleState(false)

	turn := sampleState(true)
	turn.CurrentTurn.LeftGuesses = 1
	assert.False(t, base.ConsistentWith(turn))

	reveal := sampleState(true)
	reveal.Board[0].Revealed = true
	assert.False(t, base.ConsistentWith(reveal))

	hint := sampleState(true)
	hint.LastHint = nil
	assert.False(t, base.ConsistentWith(hint))

	won := sampleState(true)
	won.IsGameOver = true
	won.Winner = &Winner{TeamColor: TeamRed, Reason: ReasonTargetScoreReached}
	assert.False(t, base.ConsistentWith(won))
}

func TestConsistentWithNil(t *testing.T) {
	var a *GameState
	assert.True(t, a.ConsistentWith(nil))
	assert.False(t, a.ConsistentWith(sampleState(true)))
	assert.False(t, sampleState(true).ConsistentWith(nil))
}

// TestGameStateWireFormat decodes a state payload shaped exactly as the
// engine serves it: history under "event_history" with per-team and global
// buckets, and timestamps as zone-less ISO 8601 strings.
func TestGameStateWireFormat(t *testing.T) {
	raw := `{
		"game_id": "g7",
		"board": [{"index": 0, "word": "ocean", "color": null, "revealed": false}],
		"score": {"red": {"revealed": 1, "total": 9}, "blue": {"revealed": 0, "total": 8}},
		"current_turn": {"team": "BLUE", "role": "HINTER", "left_guesses": 0},
		"is_game_over": false,
		"board_size": 25,
		"event_history": {
			"red_team": [{"event_type": "hint_given", "team_color": "RED", "player_role": "HINTER", "actor": {"actor_type": "user", "name": "alice"}, "timestamp": "2026-03-01T12:00:00.123456", "hint": {"word": "water", "card_amount": 2, "team_color": "RED"}}],
			"blue_team": [{"event_type": "turn_passed", "team_color": "BLUE", "player_role": "GUESSER", "actor": {"actor_type": "llm", "name": "bot", "model": "gpt-5"}, "timestamp": "2026-03-01T12:01:30"}],
			"global_events": []
		}
	}`
	var state GameState
	require.NoError(t, json.Unmarshal([]byte(raw), &state))

	assert.Equal(t, "g7", state.GameID)
	require.Len(t, state.Board, 1)
	assert.Nil(t, state.Board[0].Color)
	assert.Equal(t, TeamBlue, state.CurrentTurn.Team)
	assert.Equal(t, RoleHinter, state.CurrentTurn.Role)
	require.NotNil(t, state.History)
	require.Len(t, state.History.RedTeam, 1)
	require.Len(t, state.History.BlueTeam, 1)
	assert.Empty(t, state.History.Global)
	assert.Equal(t, EventHintGiven, state.History.RedTeam[0].EventType)
	assert.Equal(t, 123456000, state.History.RedTeam[0].Timestamp.Nanosecond())
	assert.Equal(t, EventTurnPassed, state.History.BlueTeam[0].EventType)
	assert.Equal(t, "gpt-5", state.History.BlueTeam[0].Actor.Model)
	assert.True(t, state.History.RedTeam[0].Timestamp.Before(state.History.BlueTeam[0].Timestamp.Time))
}

func TestEventTimeAcceptsEngineAndRFC3339Timestamps(t *testing.T) {
	cases := map[string]string{
		"naive isoformat":   `"2026-03-01T12:00:00.123456"`,
		"naive no fraction": `"2026-03-01T12:00:00"`,
		"space separated":   `"2026-03-01 12:00:00.500"`,
		"rfc3339 with zone": `"2026-03-01T12:00:00.123456+02:00"`,
		"rfc3339 zulu":      `"2026-03-01T12:00:00Z"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var ts EventTime
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))
			assert.False(t, ts.IsZero())
			assert.Equal(t, 2026, ts.Year())
		})
	}

	var ts EventTime
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
