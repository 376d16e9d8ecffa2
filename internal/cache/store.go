// Package cache holds the client's latest known game projections: for each
// game, an operative snapshot (card colors hidden) and a spymaster snapshot
// (colors revealed), stored independently.
//
// Writers always replace a whole projection — entries are never merged field
// by field, so two refreshes in flight can interleave without producing a
// snapshot that never existed on the engine.
package cache

import (
	"sync"

	"github.com/jdai1/codenames/internal/models"
)

// Kind names one of the two projections of a game.
type Kind string

const (
	Operative Kind = "operative"
	Spymaster Kind = "spymaster"
)

type key struct {
	kind   Kind
	gameID string
}

// Store is a process-wide keyed projection store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[key]*models.GameState
	version uint64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[key]*models.GameState)}
}

// Get returns the cached projection, or nil and false when absent.
func (s *Store) Get(kind Kind, gameID string) (*models.GameState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.entries[key{kind, gameID}]
	return state, ok
}

// Put overwrites the cached projection unconditionally (last fetch wins).
func (s *Store) Put(kind Kind, gameID string, state *models.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key{kind, gameID}] = state
	s.version++
}

// Drop removes both projections of a game.
func (s *Store) Drop(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key{Operative, gameID})
	delete(s.entries, key{Spymaster, gameID})
	s.version++
}

// Version increments on every write. The UI uses it to cheaply detect that
// something changed since it last rendered.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
