package unban

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/database/memstore"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlatform struct {
	mu       sync.Mutex
	banned   map[string]bool
	unbanned []string
	failFor  map[string]bool
	banErr   error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{banned: map[string]bool{}, failFor: map[string]bool{}}
}

func (f *fakePlatform) Ban(_ context.Context, guildID, userID, _ string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned[guildID+":"+userID] = true
	return nil
}

func (f *fakePlatform) Unban(_ context.Context, guildID, userID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return errors.New("discord unavailable")
	}
	delete(f.banned, guildID+":"+userID)
	f.unbanned = append(f.unbanned, userID)
	return nil
}

func TestSweepLiftsOnlyDueEntries(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, store.Schedule(ctx, models.PendingUnban{ID: "a", GuildID: "g", UserID: "u1", DueAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Schedule(ctx, models.PendingUnban{ID: "b", GuildID: "g", UserID: "u2", DueAt: now.Add(time.Hour)}))

	s := NewSweeper(store, platform, time.Minute)
	s.now = func() time.Time { return now }

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"u1"}, platform.unbanned)
	assert.Equal(t, 1, store.Len())
}

func TestSweepKeepsFailedEntriesForRetry(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	platform.failFor["u1"] = true
	now := time.Now()
	ctx := context.Background()

	require.NoError(t, store.Schedule(ctx, models.PendingUnban{ID: "a", GuildID: "g", UserID: "u1", DueAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Schedule(ctx, models.PendingUnban{ID: "b", GuildID: "g", UserID: "u2", DueAt: now.Add(-time.Minute)}))

	s := NewSweeper(store, platform, time.Minute)

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())

	platform.failFor["u1"] = false
	n, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.Len())
}

func TestStartRecoversOverdueEntries(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	ctx := context.Background()

	// Came due while the bot was offline.
	require.NoError(t, store.Schedule(ctx, models.PendingUnban{ID: "a", GuildID: "g", UserID: "u1", DueAt: time.Now().Add(-24 * time.Hour)}))

	s := NewSweeper(store, platform, time.Hour)
	s.Start(ctx)
	defer s.Stop()

	require.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewSweeper(memstore.NewUnbanStore(), newFakePlatform(), 0)
	assert.Equal(t, DefaultInterval, s.interval)

	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	NewSweeper(memstore.NewUnbanStore(), newFakePlatform(), 0).Stop()
}

func TestRestartAfterStop(t *testing.T) {
	s := NewSweeper(memstore.NewUnbanStore(), newFakePlatform(), time.Hour)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		s.Start(ctx)
		s.Stop()
	}
}

func TestConcurrentStartStop(t *testing.T) {
	s := NewSweeper(memstore.NewUnbanStore(), newFakePlatform(), time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Start(ctx)
				s.Stop()
			}
		}()
	}
	wg.Wait()
	s.Stop()
}

func TestTempBanPersistsPendingUnban(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sched := NewScheduler(store, platform)
	sched.now = func() time.Time { return now }

	p, err := sched.TempBan(context.Background(), "g", "u1", "spam", 3*24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, now.Add(72*time.Hour), p.DueAt)
	assert.True(t, platform.banned["g:u1"])
	assert.Equal(t, 1, store.Len())
}

func TestTempBanDoesNotScheduleWhenBanFails(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	platform.banErr = errors.New("missing permissions")

	_, err := NewScheduler(store, platform).TempBan(context.Background(), "g", "u1", "", time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.banErr)
	assert.Zero(t, store.Len())
}

func TestTempBanRejectsNonPositiveDuration(t *testing.T) {
	_, err := NewScheduler(memstore.NewUnbanStore(), newFakePlatform()).TempBan(context.Background(), "g", "u", "", 0)
	assert.Error(t, err)
}

func TestPermanentBanCancelsPendingUnban(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	sched := NewScheduler(store, platform)
	sched.now = func() time.Time { return now }

	_, err := sched.TempBan(ctx, "g", "u1", "spam", 24*time.Hour)
	require.NoError(t, err)
	_, err = sched.TempBan(ctx, "g", "u2", "spam", 24*time.Hour)
	require.NoError(t, err)

	// Escalation reaches a permanent ban while the temp ban is still running.
	exec := Executor{Bans: sched}
	require.NoError(t, exec.Ban(ctx, "g", "u1", "5 warns"))
	assert.Equal(t, 1, store.Len())

	s := NewSweeper(store, platform, time.Minute)
	s.now = func() time.Time { return now.Add(48 * time.Hour) }

	n, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"u2"}, platform.unbanned)
	assert.True(t, platform.banned["g:u1"])
	assert.Zero(t, store.Len())
}

func TestPermanentBanKeepsScheduleWhenBanFails(t *testing.T) {
	store := memstore.NewUnbanStore()
	platform := newFakePlatform()
	ctx := context.Background()

	sched := NewScheduler(store, platform)
	_, err := sched.TempBan(ctx, "g", "u1", "", time.Hour)
	require.NoError(t, err)

	platform.banErr = errors.New("missing permissions")
	err = sched.Ban(ctx, "g", "u1", "")
	assert.ErrorIs(t, err, platform.banErr)
	assert.Equal(t, 1, store.Len())
}
