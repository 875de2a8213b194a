package warns

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/database/memstore"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	permModerate int64 = 1 << 40
	permAdmin    int64 = 1 << 3
)

var (
	moderator = Actor{ID: "mod", Permissions: permModerate}
	member    = Actor{ID: "member"}
)

type executorCall struct {
	action Action
	until  time.Time
	reason string
}

type fakeExecutor struct {
	mu    sync.Mutex
	calls []executorCall
	err   error
}

func (f *fakeExecutor) Timeout(_ context.Context, _, _ string, until time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, executorCall{action: ActionTimeout, until: until, reason: reason})
	return f.err
}

func (f *fakeExecutor) Ban(_ context.Context, _, _, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, executorCall{action: ActionBan, reason: reason})
	return f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []models.ModerationEvent
}

func (f *fakeNotifier) Notify(_ context.Context, ev models.ModerationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

type serviceFixture struct {
	svc      *Service
	exec     *fakeExecutor
	notifier *fakeNotifier
	clock    *fakeClock
}

func newServiceFixture() serviceFixture {
	ledger, _, clock := newTestLedger()
	exec := &fakeExecutor{}
	notifier := &fakeNotifier{}
	auth := PermissionAuthorizer{Required: permModerate, Bypass: permAdmin}
	return serviceFixture{
		svc:      NewService(ledger, exec, auth, WithNotifier(notifier)),
		exec:     exec,
		notifier: notifier,
		clock:    clock,
	}
}

func TestPermissionAuthorizer(t *testing.T) {
	auth := PermissionAuthorizer{Required: permModerate, Bypass: permAdmin}

	tests := []struct {
		name  string
		perms int64
		want  bool
	}{
		{"no permissions", 0, false},
		{"moderate members", permModerate, true},
		{"administrator", permAdmin, true},
		{"unrelated bits", 1 << 1, false},
	}
	for _, tt := range tests {
		if got := auth.CanModerate(Actor{Permissions: tt.perms}); got != tt.want {
			t.Errorf("%s: CanModerate() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if (PermissionAuthorizer{}).CanModerate(Actor{Permissions: -1}) {
		t.Error("an unconfigured authorizer must deny everyone")
	}
}

func TestWarnEscalationSequence(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	want := []Outcome{
		{Action: ActionNone},
		{Action: ActionTimeout, Duration: 24 * time.Hour},
		{Action: ActionTimeout, Duration: 7 * 24 * time.Hour},
		{Action: ActionTimeout, Duration: 14 * 24 * time.Hour},
		{Action: ActionBan},
	}

	for i, outcome := range want {
		res, err := f.svc.Warn(ctx, moderator, testKey, "spam")
		require.NoError(t, err)
		assert.Equal(t, i+1, res.LiveCount)
		assert.Equal(t, outcome, res.Outcome, "warn #%d", i+1)
		assert.NoError(t, res.ExecErr)
	}

	require.Len(t, f.exec.calls, 4)
	first := f.exec.calls[0]
	assert.Equal(t, ActionTimeout, first.action)
	assert.True(t, first.until.Equal(f.clock.Now().Add(24*time.Hour)))
	assert.Contains(t, first.reason, "Advertencia #2")
	assert.Equal(t, ActionBan, f.exec.calls[3].action)

	require.Len(t, f.notifier.events, 5)
	last := f.notifier.events[4]
	assert.Equal(t, models.EventWarnIssued, last.Type)
	assert.Equal(t, "ban", last.Action)
	assert.Equal(t, 5, last.LiveCount)
}

func TestWarnUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Warn(ctx, member, testKey, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	count, err := f.svc.Ledger().LiveCount(ctx, testKey)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.exec.calls)
	assert.Empty(t, f.notifier.events)
}

func TestWarnKeepsRecordWhenExecutorFails(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()
	f.exec.err = errors.New("missing permissions")

	_, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)
	res, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.LiveCount)
	assert.ErrorIs(t, res.ExecErr, ErrExecutor)
	var execErr *ExecutorError
	require.ErrorAs(t, res.ExecErr, &execErr)
	assert.Equal(t, ActionTimeout, execErr.Action)
	assert.Contains(t, res.Summary(), "No se pudo aplicar")

	require.Len(t, f.notifier.events, 2)
	assert.NotEmpty(t, f.notifier.events[1].ActionError)
}

func TestWarnStorageFailure(t *testing.T) {
	exec := &fakeExecutor{}
	svc := NewService(NewLedger(failingBackend{err: errors.New("down")}), exec, PermissionAuthorizer{Required: permModerate})

	_, err := svc.Warn(context.Background(), moderator, testKey, "")
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, exec.calls, "no action without a recorded warn")
}

func TestWarnsExpireBetweenEscalations(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)
	f.clock.Advance(8 * 24 * time.Hour)

	res, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.LiveCount)
	assert.True(t, res.Outcome.IsNone())
	assert.Empty(t, f.exec.calls)
}

func TestCheckWarns(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Warn(ctx, moderator, testKey, "flood")
	require.NoError(t, err)

	count, live, err := f.svc.CheckWarns(ctx, moderator, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, live, 1)
	assert.Equal(t, "flood", live[0].Reason)

	self := Actor{ID: testKey.UserID}
	count, _, err = f.svc.CheckWarns(ctx, self, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, err = f.svc.CheckWarns(ctx, member, testKey)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemoveWarnsDoesNotReescalate(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	for range 3 {
		_, err := f.svc.Warn(ctx, moderator, testKey, "")
		require.NoError(t, err)
	}
	calls := len(f.exec.calls)

	remaining, err := f.svc.RemoveWarns(ctx, moderator, testKey, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Len(t, f.exec.calls, calls)

	last := f.notifier.events[len(f.notifier.events)-1]
	assert.Equal(t, models.EventWarnsRemoved, last.Type)
	assert.Equal(t, 1, last.LiveCount)

	res, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.LiveCount)
	assert.Equal(t, ActionTimeout, res.Outcome.Action)
}

func TestRemoveWarnsErrors(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.RemoveWarns(ctx, member, testKey, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.RemoveWarns(ctx, moderator, testKey, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = f.svc.RemoveWarns(ctx, moderator, testKey, 1)
	assert.ErrorIs(t, err, ErrInsufficientRecords)
	assert.Empty(t, f.notifier.events)
}

func TestPruneWarns(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture()

	_, err := f.svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)

	removed, err := f.svc.PruneWarns(ctx, moderator, testKey)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, f.notifier.events, 1, "nothing pruned, nothing published")

	f.clock.Advance(8 * 24 * time.Hour)
	removed, err = f.svc.PruneWarns(ctx, moderator, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, models.EventWarnsPruned, f.notifier.events[1].Type)

	_, err = f.svc.PruneWarns(ctx, member, testKey)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// listFailingStore lets deletes through but fails reads once listErr is set.
type listFailingStore struct {
	*memstore.WarnStore
	listErr error
}

func (s *listFailingStore) List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.WarnStore.List(ctx, key)
}

func TestPruneWarnsSkipsEventWhenCountFails(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := &listFailingStore{WarnStore: memstore.NewWarnStore()}
	notifier := &fakeNotifier{}
	svc := NewService(NewLedger(store, WithClock(clock.Now)), &fakeExecutor{},
		PermissionAuthorizer{Required: permModerate}, WithNotifier(notifier))

	_, err := svc.Warn(ctx, moderator, testKey, "")
	require.NoError(t, err)
	require.Len(t, notifier.events, 1)

	clock.Advance(8 * 24 * time.Hour)
	store.listErr = errors.New("replica lagging")

	removed, err := svc.PruneWarns(ctx, moderator, testKey)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, notifier.events, 1, "no event with an unknown count")
}

func TestSummary(t *testing.T) {
	res := &WarnResult{
		Record:    models.WarnRecord{UserID: "42"},
		LiveCount: 3,
		Outcome:   Decide(3),
	}
	summary := res.Summary()
	assert.Contains(t, summary, "<@42>")
	assert.Contains(t, summary, "Sin razón especificada")
	assert.Contains(t, summary, "7 días")

	res.Outcome = Decide(5)
	assert.True(t, strings.HasSuffix(res.Summary(), "baneo permanente"))
}
