package boltstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/VillagerBot/pkg/database/storetest"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWarnStoreContract(t *testing.T) {
	storetest.RunWarnBackend(t, func(t *testing.T) storetest.WarnBackend {
		return openTestStore(t).WarnStore()
	})
}

func TestUnbanStoreContract(t *testing.T) {
	storetest.RunUnbanBackend(t, func(t *testing.T) storetest.UnbanBackend {
		return openTestStore(t).UnbanStore()
	})
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "villager.db")
	s, err := Open(Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "villager.db")
	key := models.WarnKey{GuildID: "g", UserID: "u"}

	s, err := Open(Options{Path: path})
	require.NoError(t, err)
	_, err = s.WarnStore().Append(ctx, storetest.Warn("w1", key, 0))
	require.NoError(t, err)
	require.NoError(t, s.UnbanStore().Schedule(ctx, models.PendingUnban{
		ID: "p1", GuildID: "g", UserID: "u", DueAt: storetest.Base,
	}))
	require.NoError(t, s.Close())

	s, err = Open(Options{Path: path})
	require.NoError(t, err)
	defer s.Close()

	listed, err := s.WarnStore().List(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, storetest.IDs(listed))

	due, err := s.UnbanStore().Due(ctx, storetest.Base)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "p1", due[0].ID)
}

func TestEmptiedEntryIsDeleted(t *testing.T) {
	ctx := context.Background()
	ws := openTestStore(t).WarnStore()
	key := models.WarnKey{GuildID: "g", UserID: "u"}

	_, err := ws.Append(ctx, storetest.Warn("w1", key, 0))
	require.NoError(t, err)
	assert.True(t, ws.Has(key))

	require.NoError(t, ws.DeleteRecent(ctx, key, 5))
	assert.False(t, ws.Has(key))
}
