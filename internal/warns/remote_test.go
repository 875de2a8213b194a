package warns

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountHandler(t *testing.T) {
	l, _, _ := newTestLedger()
	for range 2 {
		_, _, err := l.RecordWarn(context.Background(), testKey, "mod", "")
		require.NoError(t, err)
	}

	resp, err := CountHandler(l)(map[string]any{"guildId": testKey.GuildID, "userId": testKey.UserID})
	require.NoError(t, err)

	body, ok := resp.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, body["liveCount"])
	assert.Equal(t, "timeout", body["nextAction"])
	assert.Equal(t, "168h0m0s", body["nextDuration"])
}

func TestRemoteHandlersRequireKey(t *testing.T) {
	l, _, _ := newTestLedger()

	for _, payload := range []map[string]any{
		nil,
		{"guildId": "g"},
		{"guildId": "g", "userId": 7},
	} {
		_, err := CountHandler(l)(payload)
		assert.ErrorIs(t, err, errMissingKey)
	}
}

func TestCountHandlerIsReadOnly(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestLedger()
	for range 2 {
		_, _, err := l.RecordWarn(ctx, testKey, "mod", "")
		require.NoError(t, err)
	}
	clock.Advance(8 * 24 * time.Hour)

	resp, err := CountHandler(l)(map[string]any{"guildId": testKey.GuildID, "userId": testKey.UserID})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.(map[string]any)["liveCount"])

	history, err := l.History(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, history, 2, "expired warns are only erased by a moderator prune")
}
