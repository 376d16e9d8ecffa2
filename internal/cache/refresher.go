// internal/cache/refresher.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/models"
)

// Fetcher reads one projection of a game from the rules engine.
// *engineclient.Client satisfies it.
type Fetcher interface {
	FetchState(ctx context.Context, gameID string, showColors, includeHistory bool) (*models.GameState, error)
}

// Refresher re-synchronizes both projections of a game from the engine.
type Refresher struct {
	store  *Store
	engine Fetcher

	// OnApplied, when set, runs after each successful projection write.
	// The session uses it to re-run trigger evaluation.
	OnApplied func(kind Kind, gameID string)
}

// NewRefresher wires a Refresher to its store and engine.
func NewRefresher(store *Store, engine Fetcher) *Refresher {
	return &Refresher{store: store, engine: engine}
}

// Refresh issues the two projection reads and overwrites the corresponding
// store entries. The reads are independent: they may complete in either
// order, and a failure of one never blocks or rolls back the other — each
// success is applied as soon as it arrives. Both always include the full
// event history so the projections never disagree on anything but colors.
func (r *Refresher) Refresh(ctx context.Context, gameID string) error {
	fetch := func(kind Kind, showColors bool) error {
		state, err := r.engine.FetchState(ctx, gameID, showColors, true)
		if err != nil {
			logrus.Warnf("Game %s: %s refresh failed: %v", gameID, kind, err)
			return fmt.Errorf("%s refresh: %w", kind, err)
		}
		r.store.Put(kind, gameID, state)
		if r.OnApplied != nil {
			r.OnApplied(kind, gameID)
		}
		return nil
	}

	var wg sync.WaitGroup
	var opErr, spyErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		opErr = fetch(Operative, false)
	}()
	go func() {
		defer wg.Done()
		spyErr = fetch(Spymaster, true)
	}()
	wg.Wait()
	return errors.Join(opErr, spyErr)
}
