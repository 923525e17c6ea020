//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentprog/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "agentprog.db"))
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	input := weatherRecord()
	require.NoError(t, store.SaveTable(ctx, input))

	loaded, ok, err := store.GetTable(ctx, input.Name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, input.Entries, loaded.Entries)

	input.Entries = append(input.Entries, model.TableEntry{History: []string{"sunny", "rainy"}, Action: "close"})
	require.NoError(t, store.SaveTable(ctx, input))
	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Entries, 3)

	require.NoError(t, store.DeleteTable(ctx, input.Name))
	_, ok, err = store.GetTable(ctx, input.Name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreEpisodes(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early"} {
		require.NoError(t, store.SaveEpisode(ctx, model.EpisodeRecord{
			VersionedRecord: Versioned(),
			ID:              id,
			Table:           "weather",
			StartedAt:       base.Add(time.Duration(1-i) * time.Hour),
			Outcome:         model.OutcomeCompleted,
		}))
	}
	require.NoError(t, store.SaveEpisode(ctx, model.EpisodeRecord{
		VersionedRecord: Versioned(), ID: "other", Table: "other", StartedAt: base,
	}))

	episodes, err := store.ListEpisodes(ctx, "weather")
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, "early", episodes[0].ID)
	assert.Equal(t, "late", episodes[1].ID)

	all, err := store.ListEpisodes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, ok, err := store.GetEpisode(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	err := NewSQLiteStore("").Init(context.Background())
	assert.Error(t, err)
}
