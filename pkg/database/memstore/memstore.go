// Package memstore keeps warns and pending unbans in process memory.
// Data is lost on restart; it backs tests and single-run deployments.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// WarnStore is an in-memory warn backend
type WarnStore struct {
	mu      sync.RWMutex
	entries map[models.WarnKey][]models.WarnRecord
}

// NewWarnStore creates an empty WarnStore
func NewWarnStore() *WarnStore {
	return &WarnStore{entries: make(map[models.WarnKey][]models.WarnRecord)}
}

// Append stores rec and returns a copy of the user's sequence
func (s *WarnStore) Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	seq := append(s.entries[key], rec)
	slices.SortStableFunc(seq, func(a, b models.WarnRecord) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})
	s.entries[key] = seq
	return slices.Clone(seq), nil
}

// List returns a copy of the user's sequence
func (s *WarnStore) List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries[key]), nil
}

// DeleteRecent removes the n newest records
func (s *WarnStore) DeleteRecent(ctx context.Context, key models.WarnKey, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.entries[key]
	if n >= len(seq) {
		delete(s.entries, key)
		return nil
	}
	s.entries[key] = seq[:len(seq)-n]
	return nil
}

// DeleteBefore removes records issued before cutoff
func (s *WarnStore) DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.entries[key]
	kept := slices.DeleteFunc(slices.Clone(seq), func(rec models.WarnRecord) bool {
		return rec.IssuedAt.Before(cutoff)
	})
	removed := len(seq) - len(kept)
	if len(kept) == 0 {
		delete(s.entries, key)
	} else {
		s.entries[key] = kept
	}
	return removed, nil
}

// Has reports whether the user has a ledger entry
func (s *WarnStore) Has(key models.WarnKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// UnbanStore is an in-memory pending unban backend
type UnbanStore struct {
	mu      sync.Mutex
	pending map[string]models.PendingUnban
}

// NewUnbanStore creates an empty UnbanStore
func NewUnbanStore() *UnbanStore {
	return &UnbanStore{pending: make(map[string]models.PendingUnban)}
}

// Schedule stores or replaces a pending unban
func (s *UnbanStore) Schedule(ctx context.Context, p models.PendingUnban) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.ID] = p
	return nil
}

// Due returns the pending unbans due at now, earliest first
func (s *UnbanStore) Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []models.PendingUnban
	for _, p := range s.pending {
		if p.IsDue(now) {
			due = append(due, p)
		}
	}
	slices.SortFunc(due, func(a, b models.PendingUnban) int {
		return a.DueAt.Compare(b.DueAt)
	})
	return due, nil
}

// Complete removes a processed unban
func (s *UnbanStore) Complete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	return nil
}

// CancelFor removes every pending unban of the user in the guild
func (s *UnbanStore) CancelFor(ctx context.Context, guildID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, p := range s.pending {
		if p.GuildID == guildID && p.UserID == userID {
			delete(s.pending, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns how many unbans are pending
func (s *UnbanStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
