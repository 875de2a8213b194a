package memstore

import (
	"context"
	"testing"

	"github.com/PancyStudios/VillagerBot/pkg/database/storetest"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnStoreContract(t *testing.T) {
	storetest.RunWarnBackend(t, func(t *testing.T) storetest.WarnBackend {
		return NewWarnStore()
	})
}

func TestUnbanStoreContract(t *testing.T) {
	storetest.RunUnbanBackend(t, func(t *testing.T) storetest.UnbanBackend {
		return NewUnbanStore()
	})
}

func TestEmptiedEntryIsDeleted(t *testing.T) {
	ctx := context.Background()
	s := NewWarnStore()
	key := models.WarnKey{GuildID: "g", UserID: "u"}

	_, err := s.Append(ctx, storetest.Warn("w1", key, 0))
	require.NoError(t, err)
	assert.True(t, s.Has(key))

	require.NoError(t, s.DeleteRecent(ctx, key, 1))
	assert.False(t, s.Has(key))

	_, err = s.Append(ctx, storetest.Warn("w2", key, 0))
	require.NoError(t, err)
	_, err = s.DeleteBefore(ctx, key, storetest.Base.Add(1))
	require.NoError(t, err)
	assert.False(t, s.Has(key))
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewWarnStore()
	key := models.WarnKey{GuildID: "g", UserID: "u"}
	_, err := s.Append(ctx, storetest.Warn("w1", key, 0))
	require.NoError(t, err)

	listed, err := s.List(ctx, key)
	require.NoError(t, err)
	listed[0].Reason = "changed"

	again, err := s.List(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "spam", again[0].Reason)
}
