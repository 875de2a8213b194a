// Package warns implements the warn ledger, the escalation policy that turns a
// user's live warn count into a timeout or ban, and the issuance flow tying
// both to the moderation executor.
package warns

import (
	"context"
	"slices"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/google/uuid"
)

// Window is the trailing period in which a warn counts towards escalation
const Window = 7 * day

// Backend persists warn records. Implementations must keep each user's records
// ordered by IssuedAt ascending and remove the user's entry once it is empty.
type Backend interface {
	// Append stores rec and returns the user's full sequence after the append
	Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error)
	// List returns the user's sequence, nil when the user has no entry
	List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error)
	// DeleteRecent removes the n most recently issued records
	DeleteRecent(ctx context.Context, key models.WarnKey, n int) error
	// DeleteBefore removes records issued before cutoff and returns how many were removed
	DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error)
}

// Ledger is the warn store. Expired warns are filtered when read, never
// deleted implicitly: only RemoveRecent and PruneExpired erase records.
// All operations on the same key are serialized.
type Ledger struct {
	backend Backend
	locks   *keyLock
	now     func() time.Time
}

// LedgerOption customizes a Ledger
type LedgerOption func(*Ledger)

// WithClock replaces time.Now, used by tests to move through the window
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger on top of a backend
func NewLedger(backend Backend, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		backend: backend,
		locks:   newKeyLock(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Now returns the ledger's current instant
func (l *Ledger) Now() time.Time {
	return l.now()
}

func (l *Ledger) cutoff() time.Time {
	return l.now().Add(-Window)
}

func isLive(rec models.WarnRecord, cutoff time.Time) bool {
	return !rec.IssuedAt.Before(cutoff)
}

func countLive(records []models.WarnRecord, cutoff time.Time) int {
	n := 0
	for _, rec := range records {
		if isLive(rec, cutoff) {
			n++
		}
	}
	return n
}

func sortByIssued(records []models.WarnRecord) {
	slices.SortStableFunc(records, func(a, b models.WarnRecord) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})
}

// RecordWarn appends a new warn issued now and returns it together with the
// user's live count after the append.
func (l *Ledger) RecordWarn(ctx context.Context, key models.WarnKey, moderatorID, reason string) (models.WarnRecord, int, error) {
	unlock := l.locks.Lock(key)
	defer unlock()

	rec := models.WarnRecord{
		ID:          uuid.NewString(),
		GuildID:     key.GuildID,
		UserID:      key.UserID,
		ModeratorID: moderatorID,
		Reason:      reason,
		IssuedAt:    l.now().UTC(),
	}

	records, err := l.backend.Append(ctx, rec)
	if err != nil {
		return models.WarnRecord{}, 0, storageErr("append", err)
	}
	return rec, countLive(records, l.cutoff()), nil
}

// LiveCount returns how many of the user's warns are inside the window
func (l *Ledger) LiveCount(ctx context.Context, key models.WarnKey) (int, error) {
	unlock := l.locks.Lock(key)
	defer unlock()

	records, err := l.backend.List(ctx, key)
	if err != nil {
		return 0, storageErr("list", err)
	}
	return countLive(records, l.cutoff()), nil
}

// Live returns the user's warns inside the window, oldest first
func (l *Ledger) Live(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	unlock := l.locks.Lock(key)
	defer unlock()

	records, err := l.backend.List(ctx, key)
	if err != nil {
		return nil, storageErr("list", err)
	}
	cutoff := l.cutoff()
	live := make([]models.WarnRecord, 0, len(records))
	for _, rec := range records {
		if isLive(rec, cutoff) {
			live = append(live, rec)
		}
	}
	sortByIssued(live)
	return live, nil
}

// History returns every stored warn of the user, expired ones included
func (l *Ledger) History(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	unlock := l.locks.Lock(key)
	defer unlock()

	records, err := l.backend.List(ctx, key)
	if err != nil {
		return nil, storageErr("list", err)
	}
	sortByIssued(records)
	return records, nil
}

// RemoveRecent deletes the amount most recent warns and returns the remaining
// live count. The amount is bounded by the live count, and since live warns are
// the newest ones, only live warns can be removed this way.
func (l *Ledger) RemoveRecent(ctx context.Context, key models.WarnKey, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	unlock := l.locks.Lock(key)
	defer unlock()

	records, err := l.backend.List(ctx, key)
	if err != nil {
		return 0, storageErr("list", err)
	}
	live := countLive(records, l.cutoff())
	if amount > live {
		return live, ErrInsufficientRecords
	}

	if err := l.backend.DeleteRecent(ctx, key, amount); err != nil {
		return live, storageErr("delete", err)
	}
	return live - amount, nil
}

// PruneExpired physically deletes the user's warns that fell out of the window.
// Escalation never depends on it; it only trims stored history.
func (l *Ledger) PruneExpired(ctx context.Context, key models.WarnKey) (int, error) {
	unlock := l.locks.Lock(key)
	defer unlock()

	removed, err := l.backend.DeleteBefore(ctx, key, l.cutoff())
	if err != nil {
		return 0, storageErr("prune", err)
	}
	return removed, nil
}
