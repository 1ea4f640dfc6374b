package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *SQLMatchStore {
	t.Helper()
	store, err := OpenSQLMatchStore(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLMatchStore(t *testing.T) {
	exerciseStore(t, openSQLite(t))
}

func TestSQLMatchStoreDeleteStale(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	old := sampleMatch("old", "OLD001")
	old.UpdatedAt = time.Now().Add(-48 * time.Hour).UnixMilli()
	require.NoError(t, store.Create(ctx, old))
	require.NoError(t, store.Create(ctx, sampleMatch("fresh", "NEW001")))

	removed, err := store.DeleteStale(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load(ctx, "fresh")
	assert.NoError(t, err)
}

func TestOpenSQLMatchStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenSQLMatchStore(context.Background(), "oracle", "dsn")
	assert.Error(t, err)
	_, err = OpenSQLMatchStore(context.Background(), "postgres", " ")
	assert.Error(t, err)
}

func TestBindPlaceholders(t *testing.T) {
	pg := &SQLMatchStore{dialect: dialects["postgres"]}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2 AND r = $3", pg.bind("UPDATE t SET a = ? WHERE id = ? AND r = ?"))

	my := &SQLMatchStore{dialect: dialects["mysql"]}
	assert.Equal(t, "SELECT 1 WHERE id = ?", my.bind("SELECT 1 WHERE id = ?"))
}
