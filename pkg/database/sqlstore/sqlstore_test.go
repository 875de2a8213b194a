package sqlstore

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
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
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

func TestEmptiedEntryIsDeleted(t *testing.T) {
	ctx := context.Background()
	ws := openTestStore(t).WarnStore()
	key := models.WarnKey{GuildID: "g", UserID: "u"}

	_, err := ws.Append(ctx, storetest.Warn("w1", key, 0))
	require.NoError(t, err)
	has, err := ws.Has(ctx, key)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, ws.DeleteRecent(ctx, key, 1))
	has, err = ws.Has(ctx, key)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestEmptyReasonStoredAsNull(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	key := models.WarnKey{GuildID: "g", UserID: "u"}

	rec := storetest.Warn("w1", key, 0)
	rec.Reason = ""
	_, err := s.WarnStore().Append(ctx, rec)
	require.NoError(t, err)

	var isNull bool
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT reason IS NULL FROM warns WHERE id = ?`, "w1").Scan(&isNull))
	assert.True(t, isNull)
}
