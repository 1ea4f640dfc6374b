package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitten-game/entities"
)

func sampleMatch(id, code string) *entities.MatchState {
	now := time.Now().UnixMilli()
	return &entities.MatchState{
		ID:     id,
		Code:   code,
		Status: entities.MatchStatusPlaying,
		Players: []entities.Player{
			{ID: "p1", Name: "Alice", IsAlive: true, Hand: []entities.Card{{ID: "c1", Type: entities.CardDefuse}}},
			{ID: "ai_1", Name: "Whiskers", IsAlive: true, IsAI: true, Hand: []entities.Card{}},
		},
		Deck:           []entities.Card{{ID: "c2", Type: entities.CardExplodingKitten}},
		DiscardPile:    []entities.Card{},
		TurnsRemaining: 1,
		Logs:           []entities.LogEntry{{Message: "Game started!", Timestamp: now}},
		CreatedAt:      now,
		UpdatedAt:      now,
		HostID:         "p1",
		Revision:       3,
	}
}

// exerciseStore 各实现共用的行为检查
func exerciseStore(t *testing.T, store MatchStore) {
	ctx := context.Background()
	state := sampleMatch("match0001", "ABC123")

	require.NoError(t, store.Create(ctx, state))
	assert.ErrorIs(t, store.Create(ctx, sampleMatch("match0002", "ABC123")), ErrDuplicate)

	loaded, err := store.Load(ctx, "match0001")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	byCode, err := store.LoadByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "match0001", byCode.ID)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.LoadByCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)

	next := loaded.Clone()
	next.Revision++
	next.TurnsRemaining = 2
	require.NoError(t, store.Update(ctx, next, loaded.Revision))

	stale := loaded.Clone()
	stale.Revision++
	assert.ErrorIs(t, store.Update(ctx, stale, loaded.Revision), ErrStaleRevision)

	reloaded, err := store.Load(ctx, "match0001")
	require.NoError(t, err)
	assert.Equal(t, int64(4), reloaded.Revision)
	assert.Equal(t, 2, reloaded.TurnsRemaining)

	missing := sampleMatch("ghost", "GHOST1")
	assert.ErrorIs(t, store.Update(ctx, missing, 3), ErrNotFound)
}
