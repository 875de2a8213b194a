package warns

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
	"golang.org/x/sync/errgroup"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testKey = models.WarnKey{GuildID: "guild", UserID: "user"}

func newTestLedger() (*Ledger, *memstore.WarnStore, *fakeClock) {
	clock := newFakeClock()
	store := memstore.NewWarnStore()
	return NewLedger(store, WithClock(clock.Now)), store, clock
}

func TestRecordWarnCountsLive(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestLedger()

	for want := 1; want <= 3; want++ {
		rec, count, err := l.RecordWarn(ctx, testKey, "mod", "spam")
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, testKey, rec.Key())
		assert.True(t, rec.IssuedAt.Equal(clock.Now()))
		clock.Advance(time.Hour)
	}
}

func TestWarnsExpireAfterWindow(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestLedger()

	_, _, err := l.RecordWarn(ctx, testKey, "mod", "")
	require.NoError(t, err)

	clock.Advance(Window)
	count, err := l.LiveCount(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a warn exactly at the window edge is still live")

	clock.Advance(time.Second)
	count, err = l.LiveCount(ctx, testKey)
	require.NoError(t, err)
	assert.Zero(t, count)

	history, err := l.History(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, history, 1, "expired warns stay stored until pruned")

	_, count, err = l.RecordWarn(ctx, testKey, "mod", "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLiveOmitsExpired(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestLedger()

	old, _, err := l.RecordWarn(ctx, testKey, "mod", "old")
	require.NoError(t, err)
	clock.Advance(6 * 24 * time.Hour)
	recent, _, err := l.RecordWarn(ctx, testKey, "mod", "recent")
	require.NoError(t, err)
	clock.Advance(2 * 24 * time.Hour)

	live, err := l.Live(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, recent.ID, live[0].ID)
	assert.NotEqual(t, old.ID, live[0].ID)
}

func TestRemoveRecent(t *testing.T) {
	ctx := context.Background()
	l, store, _ := newTestLedger()

	var ids []string
	for range 3 {
		rec, _, err := l.RecordWarn(ctx, testKey, "mod", "")
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	remaining, err := l.RemoveRecent(ctx, testKey, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	live, err := l.Live(ctx, testKey)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, ids[0], live[0].ID)

	remaining, err = l.RemoveRecent(ctx, testKey, 1)
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.False(t, store.Has(testKey), "an emptied ledger entry is deleted")
}

func TestRemoveRecentValidation(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestLedger()

	_, err := l.RemoveRecent(ctx, testKey, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = l.RemoveRecent(ctx, testKey, -3)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = l.RecordWarn(ctx, testKey, "mod", "")
	require.NoError(t, err)
	clock.Advance(8 * 24 * time.Hour)
	_, _, err = l.RecordWarn(ctx, testKey, "mod", "")
	require.NoError(t, err)

	live, err := l.RemoveRecent(ctx, testKey, 2)
	assert.ErrorIs(t, err, ErrInsufficientRecords)
	assert.Equal(t, 1, live)

	history, err := l.History(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, history, 2, "a rejected removal changes nothing")
}

func TestPruneExpired(t *testing.T) {
	ctx := context.Background()
	l, store, clock := newTestLedger()

	for range 2 {
		_, _, err := l.RecordWarn(ctx, testKey, "mod", "")
		require.NoError(t, err)
	}
	clock.Advance(10 * 24 * time.Hour)
	_, _, err := l.RecordWarn(ctx, testKey, "mod", "")
	require.NoError(t, err)

	removed, err := l.PruneExpired(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	history, err := l.History(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	clock.Advance(10 * 24 * time.Hour)
	removed, err = l.PruneExpired(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, store.Has(testKey))
}

func TestConcurrentWarnsAreAllCounted(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()
	const n = 50

	counts := make([]int, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			_, count, err := l.RecordWarn(ctx, testKey, "mod", "")
			counts[i] = count
			return err
		})
	}
	require.NoError(t, g.Wait())

	count, err := l.LiveCount(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	seen := make(map[int]bool, n)
	for _, c := range counts {
		assert.False(t, seen[c], "live count %d returned twice", c)
		seen[c] = true
	}
	assert.Zero(t, l.locks.size(), "locks are released once idle")
}

type failingBackend struct{ err error }

func (f failingBackend) Append(context.Context, models.WarnRecord) ([]models.WarnRecord, error) {
	return nil, f.err
}
func (f failingBackend) List(context.Context, models.WarnKey) ([]models.WarnRecord, error) {
	return nil, f.err
}
func (f failingBackend) DeleteRecent(context.Context, models.WarnKey, int) error { return f.err }
func (f failingBackend) DeleteBefore(context.Context, models.WarnKey, time.Time) (int, error) {
	return 0, f.err
}

func TestBackendFailuresAreStorageErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk on fire")
	l := NewLedger(failingBackend{err: cause})

	_, _, err := l.RecordWarn(ctx, testKey, "mod", "")
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "append", storageErr.Op)

	_, err = l.LiveCount(ctx, testKey)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = l.RemoveRecent(ctx, testKey, 1)
	assert.ErrorIs(t, err, ErrStorage)
	_, err = l.PruneExpired(ctx, testKey)
	assert.ErrorIs(t, err, ErrStorage)
}
