// Package trigger decides, exactly once per turn slice, whether an automated
// player must be invoked, and runs that invocation against the engine.
//
// A turn slice is identified by its fingerprint (team, role, guesses left).
// The tracker remembers the last fingerprint it triggered for and refuses to
// trigger again until the fingerprint changes, which makes evaluation safe to
// re-run on every state refresh — including the refreshes caused by the
// invocation's own streamed response.
package trigger

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/models"
)

// Fingerprint identifies a distinct turn slice. An automated guesser allowed
// multiple guesses is re-invoked once per remaining guess, each as its own
// fingerprint; that is intended behavior, not double-triggering.
type Fingerprint struct {
	Team        models.TeamColor
	Role        models.PlayerRole
	LeftGuesses int
}

// FingerprintOf derives the fingerprint from a projection's current turn.
func FingerprintOf(state *models.GameState) Fingerprint {
	return Fingerprint{
		Team:        state.CurrentTurn.Team,
		Role:        state.CurrentTurn.Role,
		LeftGuesses: state.CurrentTurn.LeftGuesses,
	}
}

// Invoker performs the automated player's action for a seat. Implementations
// block until the engine's streamed response is fully consumed.
type Invoker interface {
	InvokeHint(ctx context.Context, gameID, model string) error
	InvokeGuess(ctx context.Context, gameID, model string, nOperatives int) error
}

// Tracker owns the "already triggered this turn" state. All methods are safe
// for concurrent use; invocations run on their own goroutine so evaluation
// never blocks on the network.
type Tracker struct {
	mu            sync.Mutex
	lastTriggered *Fingerprint

	seats       models.Seats
	nOperatives int
	invoker     Invoker

	// OnTriggered, when set, runs just after a fingerprint is marked as
	// handled and before its invocation starts.
	OnTriggered func(fp Fingerprint, ctrl models.Controller)

	// OnSettled, when set, runs after an invocation finishes (success or
	// failure) and the tracker has re-armed. err is nil on success. The
	// session uses it to log failures.
	OnSettled func(fp Fingerprint, err error)
}

// NewTracker creates a Tracker invoking automated seats through invoker.
// nOperatives is forwarded on guess invocations.
func NewTracker(seats models.Seats, nOperatives int, invoker Invoker) *Tracker {
	if nOperatives < 1 {
		nOperatives = 1
	}
	return &Tracker{seats: seats, nOperatives: nOperatives, invoker: invoker}
}

// SetSeats replaces the lobby seat configuration.
func (t *Tracker) SetSeats(seats models.Seats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seats = seats
}

// Reset clears the trigger state so the next distinct automated turn can
// trigger again. Idempotent.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastTriggered = nil
}

// Evaluate inspects the latest operative projection and triggers the
// automated player for the seat on move if, and only if, this turn slice has
// not been handled yet. Human turns clear the trigger state instead of
// consuming it, so a later automated turn is always eligible.
func (t *Tracker) Evaluate(ctx context.Context, state *models.GameState) {
	t.mu.Lock()

	if state == nil || state.IsGameOver {
		t.lastTriggered = nil
		t.mu.Unlock()
		return
	}

	fp := FingerprintOf(state)
	if t.lastTriggered != nil && *t.lastTriggered == fp {
		t.mu.Unlock()
		return
	}

	ctrl := t.seats.ControllerFor(fp.Team, fp.Role)
	if ctrl.Human() {
		t.lastTriggered = nil
		t.mu.Unlock()
		return
	}

	// Mark the slice as handled before the network call starts, so a rapid
	// re-evaluation cannot double-invoke the same fingerprint.
	triggered := fp
	t.lastTriggered = &triggered
	nOps := t.nOperatives
	t.mu.Unlock()

	gameID := state.GameID
	logrus.Infof("Game %s: triggering %s for %s %s (%d guesses left)",
		gameID, ctrl.Model, fp.Team, fp.Role, fp.LeftGuesses)
	if t.OnTriggered != nil {
		t.OnTriggered(fp, ctrl)
	}

	go func() {
		var err error
		if fp.Role == models.RoleHinter {
			err = t.invoker.InvokeHint(ctx, gameID, ctrl.Model)
		} else {
			err = t.invoker.InvokeGuess(ctx, gameID, ctrl.Model, nOps)
		}
		t.settle(fp, err)
	}()
}

// settle re-arms the tracker after an invocation completes. The clear is
// conditional on the fingerprint still being the one we invoked for: if a
// different turn slice triggered while this one streamed, its guard must
// survive.
func (t *Tracker) settle(fp Fingerprint, err error) {
	t.mu.Lock()
	if t.lastTriggered != nil && *t.lastTriggered == fp {
		t.lastTriggered = nil
	}
	t.mu.Unlock()

	if err != nil {
		logrus.Errorf("automated %s %s turn failed: %v", fp.Team, fp.Role, err)
	}
	if t.OnSettled != nil {
		t.OnSettled(fp, err)
	}
}
