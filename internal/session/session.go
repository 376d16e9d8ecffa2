// Package session is the client-side controller for one player's sitting:
// it owns the projection cache, the turn trigger, and the seat
// configuration, gates human actions, and keeps everything synchronized with
// the remote engine.
//
// Mutation flow: any confirmed engine mutation (human action, streamed AI
// frame, new game) causes a dual-projection refresh, and every applied
// operative projection re-runs trigger evaluation. The UI never mutates
// state; it reads projections from the cache and calls the action methods.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/cache"
	"github.com/jdai1/codenames/internal/engineclient"
	"github.com/jdai1/codenames/internal/models"
	"github.com/jdai1/codenames/internal/stream"
	"github.com/jdai1/codenames/internal/trigger"
)

// Action gating errors. Handlers return these without sending any request.
var (
	ErrNoGame        = errors.New("no active game")
	ErrNotYourTurn   = errors.New("that team is not on move")
	ErrWrongRole     = errors.New("that action does not match the role on move")
	ErrSeatAutomated = errors.New("that seat is controlled by a model")
)

// maxActivity bounds the streamed-activity log kept for the UI.
const maxActivity = 200

// Session coordinates one client against one engine.
type Session struct {
	engine    *engineclient.Client
	store     *cache.Store
	refresher *cache.Refresher
	tracker   *trigger.Tracker

	mu       sync.Mutex
	gameID   string
	seats    models.Seats
	activity []string
	inFlight int // running automated invocations, for UI spinners

	// OnUpdate, when set, is called (without internal locks held) whenever
	// cached state or activity changed and the UI should re-read.
	OnUpdate func()
}

// New assembles a Session around an engine client.
func New(engine *engineclient.Client, seats models.Seats, nOperatives int) *Session {
	s := &Session{
		engine: engine,
		store:  cache.NewStore(),
		seats:  seats,
	}
	s.refresher = cache.NewRefresher(s.store, engine)

	invoker := trigger.NewAIInvoker(engine, s.refresher)
	invoker.OnFrame = s.onFrame

	s.tracker = trigger.NewTracker(seats, nOperatives, invoker)
	s.tracker.OnTriggered = s.onTriggered
	s.tracker.OnSettled = s.onSettled

	// Trigger evaluation uses the operative projection only: it is the
	// "live" view. If the operative fetch fails while the spymaster fetch
	// succeeds, evaluation waits for the next successful operative read.
	s.refresher.OnApplied = func(kind cache.Kind, gameID string) {
		if kind == cache.Operative {
			s.Evaluate()
		}
		s.notify()
	}
	return s
}

// Store exposes the projection cache for read-only rendering.
func (s *Session) Store() *cache.Store { return s.store }

// Seats returns the current lobby configuration.
func (s *Session) Seats() models.Seats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats
}

// SetSeats reconfigures the seat controllers and re-evaluates the current
// turn, so switching a seat to a model mid-game takes effect immediately.
func (s *Session) SetSeats(seats models.Seats) {
	s.mu.Lock()
	s.seats = seats
	s.mu.Unlock()
	s.tracker.SetSeats(seats)
	s.Evaluate()
}

// GameID returns the active game identifier, empty when none.
func (s *Session) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

// Streaming reports whether any automated invocation is in flight.
func (s *Session) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Activity returns the streamed-activity lines, oldest first.
func (s *Session) Activity() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.activity))
	copy(out, s.activity)
	return out
}

// Operative returns the cached operative projection of the active game.
func (s *Session) Operative() *models.GameState {
	state, _ := s.store.Get(cache.Operative, s.GameID())
	return state
}

// Spymaster returns the cached spymaster projection of the active game. It
// is never refetched implicitly — only an explicit refresh overwrites it —
// so a stale nil here means no refresh has succeeded yet.
func (s *Session) Spymaster() *models.GameState {
	state, _ := s.store.Get(cache.Spymaster, s.GameID())
	return state
}

// NewGame creates a game on the engine, seeds both projections, and resets
// the trigger so the first turn can fire.
func (s *Session) NewGame(ctx context.Context, req engineclient.CreateGameRequest) error {
	gameID, initial, err := s.engine.CreateGame(ctx, req)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	s.mu.Lock()
	s.gameID = gameID
	s.activity = nil
	s.mu.Unlock()

	// The creation response is the initial spymaster-visible projection;
	// cache it so a peek works before the first refresh lands.
	if initial != nil {
		s.store.Put(cache.Spymaster, gameID, initial)
	}
	s.tracker.Reset()
	logrus.Infof("Game %s: created (%d cards)", gameID, boardSize(initial))

	if err := s.refresher.Refresh(ctx, gameID); err != nil {
		logrus.Warnf("Game %s: initial refresh incomplete: %v", gameID, err)
	}
	s.notify()
	return nil
}

// SelectGame switches the active game. The operative projection is live and
// re-derived immediately; the spymaster projection is left to whatever the
// cache already holds until an explicit refresh.
func (s *Session) SelectGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	s.gameID = gameID
	s.mu.Unlock()
	s.tracker.Reset()

	state, err := s.engine.FetchState(ctx, gameID, false, true)
	if err != nil {
		return fmt.Errorf("fetch game %s: %w", gameID, err)
	}
	s.store.Put(cache.Operative, gameID, state)
	s.Evaluate()
	s.notify()
	return nil
}

// Refresh re-fetches both projections of the active game.
func (s *Session) Refresh(ctx context.Context) error {
	gameID := s.GameID()
	if gameID == "" {
		return ErrNoGame
	}
	return s.refresher.Refresh(ctx, gameID)
}

// Evaluate re-runs trigger evaluation against the latest operative
// projection. Called after every applied operative refresh; safe to call at
// any time.
func (s *Session) Evaluate() {
	gameID := s.GameID()
	if gameID == "" {
		return
	}
	state, _ := s.store.Get(cache.Operative, gameID)
	s.tracker.Evaluate(context.Background(), state)
}

// CanSubmit reports whether a human action by the given team and role would
// currently be accepted: the team must be on move, the role must match, and
// the seat's configured controller must be human. Returns nil when all three
// hold; the UI uses this to enable controls without sending requests.
func (s *Session) CanSubmit(team models.TeamColor, role models.PlayerRole) error {
	gameID := s.GameID()
	if gameID == "" {
		return ErrNoGame
	}
	state, ok := s.store.Get(cache.Operative, gameID)
	if !ok || state == nil || state.IsGameOver {
		return ErrNoGame
	}
	if state.CurrentTurn.Team != team {
		return ErrNotYourTurn
	}
	if state.CurrentTurn.Role != role {
		return ErrWrongRole
	}
	if !s.Seats().ControllerFor(team, role).Human() {
		return ErrSeatAutomated
	}
	return nil
}

// canAct enforces the three human-action conditions against the operative
// projection: acting team on move, role matching the action, seat human.
func (s *Session) canAct(role models.PlayerRole) (string, error) {
	gameID := s.GameID()
	if gameID == "" {
		return "", ErrNoGame
	}
	state, ok := s.store.Get(cache.Operative, gameID)
	if !ok || state == nil || state.IsGameOver {
		return "", ErrNoGame
	}
	if err := s.CanSubmit(state.CurrentTurn.Team, role); err != nil {
		return "", err
	}
	return gameID, nil
}

// GiveHint submits a human spymaster hint. On engine rejection the cached
// state is left untouched; on success both projections are refreshed.
func (s *Session) GiveHint(ctx context.Context, word string, cardAmount int) error {
	gameID, err := s.canAct(models.RoleHinter)
	if err != nil {
		return err
	}
	if err := s.engine.GiveHint(ctx, gameID, word, cardAmount); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// MakeGuess submits a human operative guess.
func (s *Session) MakeGuess(ctx context.Context, word string) error {
	gameID, err := s.canAct(models.RoleGuesser)
	if err != nil {
		return err
	}
	if err := s.engine.MakeGuess(ctx, gameID, word); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// PassTurn passes the human operatives' remaining guesses.
func (s *Session) PassTurn(ctx context.Context) error {
	gameID, err := s.canAct(models.RoleGuesser)
	if err != nil {
		return err
	}
	if err := s.engine.PassTurn(ctx, gameID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Session) onTriggered(fp trigger.Fingerprint, ctrl models.Controller) {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
	s.appendActivity(fmt.Sprintf("%s %s thinking (%s)...", fp.Team, fp.Role, ctrl.Model))
}

func (s *Session) onSettled(fp trigger.Fingerprint, err error) {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.mu.Unlock()
	if err != nil {
		s.appendActivity(fmt.Sprintf("%s %s turn failed: %v", fp.Team, fp.Role, err))
	}
	// Deliberately no Evaluate here: successive automated turns chain through
	// the per-frame refreshes (OnApplied fires while the guard still holds the
	// settled fingerprint), and re-evaluating an unchanged state after a
	// failed invocation would retry the same turn in a loop.
	s.notify()
}

func (s *Session) onFrame(_ string, f stream.Frame) {
	if line := DescribeFrame(f); line != "" {
		s.appendActivity(line)
	}
	s.notify()
}

func (s *Session) appendActivity(line string) {
	s.mu.Lock()
	s.activity = append(s.activity, line)
	if len(s.activity) > maxActivity {
		s.activity = s.activity[len(s.activity)-maxActivity:]
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	if s.OnUpdate != nil {
		s.OnUpdate()
	}
}

func boardSize(state *models.GameState) int {
	if state == nil {
		return 0
	}
	return state.BoardSize
}
