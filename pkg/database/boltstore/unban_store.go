package boltstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

// UnbanStore persists pending unbans
type UnbanStore struct {
	db *bolt.DB
}

// Schedule stores or replaces a pending unban
func (s *UnbanStore) Schedule(ctx context.Context, p models.PendingUnban) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketPendingUnbans)
		if bucket == nil {
			return fmt.Errorf("bucket not found: %s", BucketPendingUnbans)
		}

		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal pending unban: %w", err)
		}
		return bucket.Put([]byte(p.ID), data)
	})
}

// Due returns the pending unbans due at now, earliest first
func (s *UnbanStore) Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error) {
	var due []models.PendingUnban

	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketPendingUnbans)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var p models.PendingUnban
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("failed to unmarshal pending unban %s: %w", k, err)
			}
			if p.IsDue(now) {
				due = append(due, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(due, func(a, b models.PendingUnban) int {
		return a.DueAt.Compare(b.DueAt)
	})
	return due, nil
}

// Complete removes a processed unban
func (s *UnbanStore) Complete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketPendingUnbans)
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})
}

// CancelFor removes every pending unban of the user in the guild
func (s *UnbanStore) CancelFor(ctx context.Context, guildID, userID string) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketPendingUnbans)
		if bucket == nil {
			return nil
		}

		var ids [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var p models.PendingUnban
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("failed to unmarshal pending unban %s: %w", k, err)
			}
			if p.GuildID == guildID && p.UserID == userID {
				ids = append(ids, slices.Clone(k))
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Deleting inside ForEach is not allowed, so keys are collected first.
		for _, id := range ids {
			if err := bucket.Delete(id); err != nil {
				return err
			}
		}
		removed = len(ids)
		return nil
	})
	return removed, err
}
