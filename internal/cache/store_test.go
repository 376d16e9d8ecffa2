// internal/cache/store_test.go
package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdai1/codenames/internal/models"
)

func stateWithTurn(left int) *models.GameState {
	return &models.GameState{
		GameID:      "g1",
		CurrentTurn: models.TurnInfo{Team: models.TeamRed, Role: models.RoleGuesser, LeftGuesses: left},
	}
}

func TestStoreGetAbsent(t *testing.T) {
	s := NewStore()
	state, ok := s.Get(Operative, "g1")
	assert.Nil(t, state)
	assert.False(t, ok)
}

func TestStoreProjectionsAreIndependent(t *testing.T) {
	s := NewStore()
	s.Put(Operative, "g1", stateWithTurn(2))

	_, ok := s.Get(Spymaster, "g1")
	assert.False(t, ok, "writing one projection must not create the other")

	op, ok := s.Get(Operative, "g1")
	require.True(t, ok)
	assert.Equal(t, 2, op.CurrentTurn.LeftGuesses)
}

func TestStorePutReplacesWholeValue(t *testing.T) {
	s := NewStore()
	s.Put(Operative, "g1", stateWithTurn(3))
	s.Put(Operative, "g1", stateWithTurn(1))

	op, ok := s.Get(Operative, "g1")
	require.True(t, ok)
	assert.Equal(t, 1, op.CurrentTurn.LeftGuesses, "last write wins")
}

func TestStoreDropRemovesBothProjections(t *testing.T) {
	s := NewStore()
	s.Put(Operative, "g1", stateWithTurn(2))
	s.Put(Spymaster, "g1", stateWithTurn(2))
	s.Put(Operative, "g2", stateWithTurn(4))

	s.Drop("g1")

	_, ok := s.Get(Operative, "g1")
	assert.False(t, ok)
	_, ok = s.Get(Spymaster, "g1")
	assert.False(t, ok)
	_, ok = s.Get(Operative, "g2")
	assert.True(t, ok, "dropping one game leaves others alone")
}

func TestStoreVersionAdvancesOnWrites(t *testing.T) {
	s := NewStore()
	v0 := s.Version()
	s.Put(Operative, "g1", stateWithTurn(2))
	v1 := s.Version()
	assert.Greater(t, v1, v0)

	s.Get(Operative, "g1")
	assert.Equal(t, v1, s.Version(), "reads do not bump the version")

	s.Drop("g1")
	assert.Greater(t, s.Version(), v1)
}
