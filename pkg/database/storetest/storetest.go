// Package storetest holds the contract every warn and pending unban backend
// has to satisfy. Backend packages call it from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WarnBackend mirrors warns.Backend
type WarnBackend interface {
	Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error)
	List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error)
	DeleteRecent(ctx context.Context, key models.WarnKey, n int) error
	DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error)
}

// UnbanBackend mirrors unban.Store
type UnbanBackend interface {
	Schedule(ctx context.Context, p models.PendingUnban) error
	Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error)
	Complete(ctx context.Context, id string) error
	CancelFor(ctx context.Context, guildID, userID string) (int, error)
}

// Base is the reference instant used by the suites
var Base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var alice = models.WarnKey{GuildID: "g1", UserID: "alice"}

// Warn builds a record for key issued at Base plus offset
func Warn(id string, key models.WarnKey, offset time.Duration) models.WarnRecord {
	return models.WarnRecord{
		ID:          id,
		GuildID:     key.GuildID,
		UserID:      key.UserID,
		ModeratorID: "mod",
		Reason:      "spam",
		IssuedAt:    Base.Add(offset),
	}
}

// IDs returns the record IDs in order
func IDs(records []models.WarnRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}

// RunWarnBackend runs the warn backend contract. newStore must return an empty store.
func RunWarnBackend(t *testing.T, newStore func(t *testing.T) WarnBackend) {
	ctx := context.Background()

	t.Run("ListAbsent", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("AppendReturnsOrderedSequence", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Append(ctx, Warn("b", alice, time.Hour))
		require.NoError(t, err)
		seq, err := s.Append(ctx, Warn("a", alice, 0))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, IDs(seq))

		listed, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, IDs(listed))

		first := listed[0]
		assert.Equal(t, "mod", first.ModeratorID)
		assert.Equal(t, "spam", first.Reason)
		assert.True(t, first.IssuedAt.Equal(Base), "issuedAt round trip: %v", first.IssuedAt)
	})

	t.Run("KeysAreIsolated", func(t *testing.T) {
		s := newStore(t)
		otherGuild := models.WarnKey{GuildID: "g2", UserID: alice.UserID}

		_, err := s.Append(ctx, Warn("a1", alice, 0))
		require.NoError(t, err)
		seq, err := s.Append(ctx, Warn("o1", otherGuild, 0))
		require.NoError(t, err)
		assert.Equal(t, []string{"o1"}, IDs(seq))

		listed, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1"}, IDs(listed))
	})

	t.Run("DeleteRecentRemovesNewest", func(t *testing.T) {
		s := newStore(t)
		for i, id := range []string{"w1", "w2", "w3"} {
			_, err := s.Append(ctx, Warn(id, alice, time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}

		require.NoError(t, s.DeleteRecent(ctx, alice, 2))
		listed, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"w1"}, IDs(listed))
	})

	t.Run("DeleteRecentEmptiesEntry", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, Warn("w1", alice, 0))
		require.NoError(t, err)

		require.NoError(t, s.DeleteRecent(ctx, alice, 1))
		listed, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("DeleteBeforeCountsRemoved", func(t *testing.T) {
		s := newStore(t)
		for i, id := range []string{"old1", "old2", "new"} {
			_, err := s.Append(ctx, Warn(id, alice, time.Duration(i)*24*time.Hour))
			require.NoError(t, err)
		}

		removed, err := s.DeleteBefore(ctx, alice, Base.Add(36*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		listed, err := s.List(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, IDs(listed))

		removed, err = s.DeleteBefore(ctx, alice, Base)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("DeleteBeforeAbsentKey", func(t *testing.T) {
		s := newStore(t)
		removed, err := s.DeleteBefore(ctx, alice, Base)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})
}

// RunUnbanBackend runs the pending unban contract. newStore must return an empty store.
func RunUnbanBackend(t *testing.T, newStore func(t *testing.T) UnbanBackend) {
	ctx := context.Background()

	pending := func(id string, due time.Duration) models.PendingUnban {
		return models.PendingUnban{
			ID:        id,
			GuildID:   "g1",
			UserID:    "user-" + id,
			Reason:    "tempban",
			DueAt:     Base.Add(due),
			CreatedAt: Base.Add(-time.Hour),
		}
	}

	t.Run("DueReturnsOnlyExpiredEarliestFirst", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Schedule(ctx, pending("later", time.Hour)))
		require.NoError(t, s.Schedule(ctx, pending("second", -time.Minute)))
		require.NoError(t, s.Schedule(ctx, pending("first", -time.Hour)))
		require.NoError(t, s.Schedule(ctx, pending("exact", 0)))

		due, err := s.Due(ctx, Base)
		require.NoError(t, err)
		require.Len(t, due, 3)
		assert.Equal(t, "first", due[0].ID)
		assert.Equal(t, "second", due[1].ID)
		assert.Equal(t, "exact", due[2].ID)
		assert.Equal(t, "user-first", due[0].UserID)
		assert.Equal(t, "tempban", due[0].Reason)
	})

	t.Run("ScheduleReplacesSameID", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Schedule(ctx, pending("p", -time.Hour)))
		require.NoError(t, s.Schedule(ctx, pending("p", time.Hour)))

		due, err := s.Due(ctx, Base)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("CancelForRemovesOnlyThatUser", func(t *testing.T) {
		s := newStore(t)
		first := pending("first", -time.Hour)
		again := pending("again", time.Hour)
		again.UserID = first.UserID
		otherGuild := pending("other-guild", -time.Hour)
		otherGuild.UserID = first.UserID
		otherGuild.GuildID = "g2"
		for _, p := range []models.PendingUnban{first, again, otherGuild, pending("someone", -time.Hour)} {
			require.NoError(t, s.Schedule(ctx, p))
		}

		removed, err := s.CancelFor(ctx, "g1", first.UserID)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		due, err := s.Due(ctx, Base.Add(2*time.Hour))
		require.NoError(t, err)
		ids := make([]string, 0, len(due))
		for _, p := range due {
			ids = append(ids, p.ID)
		}
		assert.ElementsMatch(t, []string{"other-guild", "someone"}, ids)

		removed, err = s.CancelFor(ctx, "g1", first.UserID)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("CompleteRemoves", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Schedule(ctx, pending("p", -time.Hour)))
		require.NoError(t, s.Complete(ctx, "p"))
		require.NoError(t, s.Complete(ctx, "missing"))

		due, err := s.Due(ctx, Base)
		require.NoError(t, err)
		assert.Empty(t, due)
	})
}
