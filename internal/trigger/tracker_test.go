// internal/trigger/tracker_test.go
package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdai1/codenames/internal/models"
)

type invocation struct {
	kind        string // "hint" or "guess"
	gameID      string
	model       string
	nOperatives int

	// done releases this specific invocation with the given error, so tests
	// control completion order even with several in flight.
	done chan error
}

// mockInvoker records invocations and lets the test control when each one
// completes and with what error.
type mockInvoker struct {
	mu      sync.Mutex
	calls   []invocation
	invoked chan invocation
}

func newMockInvoker() *mockInvoker {
	return &mockInvoker{invoked: make(chan invocation, 8)}
}

func (m *mockInvoker) record(inv invocation) error {
	inv.done = make(chan error)
	m.mu.Lock()
	m.calls = append(m.calls, inv)
	m.mu.Unlock()
	m.invoked <- inv
	return <-inv.done
}

func (m *mockInvoker) InvokeHint(_ context.Context, gameID, model string) error {
	return m.record(invocation{kind: "hint", gameID: gameID, model: model})
}

func (m *mockInvoker) InvokeGuess(_ context.Context, gameID, model string, n int) error {
	return m.record(invocation{kind: "guess", gameID: gameID, model: model, nOperatives: n})
}

func (m *mockInvoker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func waitInvocation(t *testing.T, m *mockInvoker) invocation {
	t.Helper()
	select {
	case inv := <-m.invoked:
		return inv
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for invocation")
		return invocation{}
	}
}

func assertNoInvocation(t *testing.T, m *mockInvoker) {
	t.Helper()
	select {
	case inv := <-m.invoked:
		t.Fatalf("unexpected invocation: %+v", inv)
	case <-time.After(50 * time.Millisecond):
	}
}

// aiSeats configures the red guesser as model "M" and everyone else human.
func aiSeats() models.Seats {
	return models.Seats{
		RedSpymaster:  models.Controller{Kind: models.ControllerHuman},
		RedOperative:  models.Controller{Kind: models.ControllerModel, Model: "M"},
		BlueSpymaster: models.Controller{Kind: models.ControllerHuman},
		BlueOperative: models.Controller{Kind: models.ControllerHuman},
	}
}

func turnState(team models.TeamColor, role models.PlayerRole, left int) *models.GameState {
	return &models.GameState{
		GameID:      "g1",
		CurrentTurn: models.TurnInfo{Team: team, Role: role, LeftGuesses: left},
	}
}

// newTestTracker wires a tracker with a settled channel for synchronization.
func newTestTracker(seats models.Seats, inv Invoker) (*Tracker, chan error) {
	tr := NewTracker(seats, 3, inv)
	settled := make(chan error, 8)
	tr.OnSettled = func(_ Fingerprint, err error) { settled <- err }
	return tr, settled
}

func waitSettled(t *testing.T, settled chan error) error {
	t.Helper()
	select {
	case err := <-settled:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for invocation to settle")
		return nil
	}
}

// TestAtMostOncePerFingerprint: repeated evaluations with an unchanged
// fingerprint must produce zero additional invocations.
func TestAtMostOncePerFingerprint(t *testing.T) {
	mi := newMockInvoker()
	tr, settled := newTestTracker(aiSeats(), mi)
	state := turnState(models.TeamRed, models.RoleGuesser, 2)

	tr.Evaluate(context.Background(), state)
	inv := waitInvocation(t, mi)
	assert.Equal(t, "guess", inv.kind)
	assert.Equal(t, "g1", inv.gameID)
	assert.Equal(t, "M", inv.model)
	assert.Equal(t, 3, inv.nOperatives)

	// Rapid re-evaluations while the invocation is still in flight.
	tr.Evaluate(context.Background(), state)
	tr.Evaluate(context.Background(), state)
	assertNoInvocation(t, mi)
	require.Equal(t, 1, mi.callCount())

	inv.done <- nil
	waitSettled(t, settled)
}

// TestFingerprintChangeRearms: after an invocation completes, a decremented
// guesses-remaining is a new fingerprint and must trigger again.
func TestFingerprintChangeRearms(t *testing.T) {
	mi := newMockInvoker()
	tr, settled := newTestTracker(aiSeats(), mi)

	tr.Evaluate(context.Background(), turnState(models.TeamRed, models.RoleGuesser, 2))
	waitInvocation(t, mi).done <- nil
	waitSettled(t, settled)

	tr.Evaluate(context.Background(), turnState(models.TeamRed, models.RoleGuesser, 1))
	inv := waitInvocation(t, mi)
	assert.Equal(t, "guess", inv.kind)
	inv.done <- nil
	waitSettled(t, settled)

	require.Equal(t, 2, mi.callCount())
}

// TestFailureRearms: an invocation failure must leave the fingerprint
// eligible again so play is not permanently stuck.
func TestFailureRearms(t *testing.T) {
	mi := newMockInvoker()
	tr, settled := newTestTracker(aiSeats(), mi)
	state := turnState(models.TeamRed, models.RoleGuesser, 2)

	tr.Evaluate(context.Background(), state)
	waitInvocation(t, mi).done <- errors.New("engine unavailable")
	err := waitSettled(t, settled)
	require.Error(t, err)

	// Same fingerprint is eligible again after the failure.
	tr.Evaluate(context.Background(), state)
	waitInvocation(t, mi).done <- nil
	waitSettled(t, settled)
	require.Equal(t, 2, mi.callCount())
}

// TestHumanTurnNeverInvokesAndClears: a human seat on move produces no
// invocation and never "consumes" a fingerprint.
func TestHumanTurnNeverInvokesAndClears(t *testing.T) {
	mi := newMockInvoker()
	tr, _ := newTestTracker(aiSeats(), mi)

	// Blue guesser is human.
	tr.Evaluate(context.Background(), turnState(models.TeamBlue, models.RoleGuesser, 1))
	assertNoInvocation(t, mi)

	// Hinter role resolves to the spymaster seat, also human here.
	tr.Evaluate(context.Background(), turnState(models.TeamRed, models.RoleHinter, 0))
	assertNoInvocation(t, mi)
	require.Zero(t, mi.callCount())
}

// TestGameOverAndAbsentStateReset: both are idempotent resets with no action.
func TestGameOverAndAbsentStateReset(t *testing.T) {
	mi := newMockInvoker()
	tr, settled := newTestTracker(aiSeats(), mi)

	over := turnState(models.TeamRed, models.RoleGuesser, 2)
	over.IsGameOver = true
	tr.Evaluate(context.Background(), over)
	tr.Evaluate(context.Background(), nil)
	assertNoInvocation(t, mi)

	// After the reset, a live automated turn triggers normally.
	tr.Evaluate(context.Background(), turnState(models.TeamRed, models.RoleGuesser, 2))
	waitInvocation(t, mi).done <- nil
	waitSettled(t, settled)
}

// TestSettleKeepsNewerGuard: when a second fingerprint triggers while the
// first invocation is still streaming, the first settling must not clear the
// second's at-most-once guard.
func TestSettleKeepsNewerGuard(t *testing.T) {
	mi := newMockInvoker()
	tr, settled := newTestTracker(aiSeats(), mi)

	first := turnState(models.TeamRed, models.RoleGuesser, 2)
	second := turnState(models.TeamRed, models.RoleGuesser, 1)

	tr.Evaluate(context.Background(), first)
	firstInv := waitInvocation(t, mi)

	// Mid-stream the engine advanced the turn; a refresh evaluates the new
	// fingerprint and triggers a second invocation.
	tr.Evaluate(context.Background(), second)
	secondInv := waitInvocation(t, mi)

	// First invocation settles; the second is still in flight.
	firstInv.done <- nil
	waitSettled(t, settled)

	// The second fingerprint must still be guarded.
	tr.Evaluate(context.Background(), second)
	assertNoInvocation(t, mi)
	require.Equal(t, 2, mi.callCount())

	secondInv.done <- nil
	waitSettled(t, settled)
}

// TestHinterRoutesToHintInvocation verifies seat resolution for hinters.
func TestHinterRoutesToHintInvocation(t *testing.T) {
	seats := aiSeats()
	seats.BlueSpymaster = models.Controller{Kind: models.ControllerModel, Model: "gpt-5"}
	mi := newMockInvoker()
	tr, settled := newTestTracker(seats, mi)

	tr.Evaluate(context.Background(), turnState(models.TeamBlue, models.RoleHinter, 0))
	inv := waitInvocation(t, mi)
	assert.Equal(t, "hint", inv.kind)
	assert.Equal(t, "gpt-5", inv.model)
	inv.done <- nil
	waitSettled(t, settled)
}
