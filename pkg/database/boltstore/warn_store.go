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

// WarnStore keeps each user's warns as one JSON array value
type WarnStore struct {
	db *bolt.DB
}

func warnKey(key models.WarnKey) []byte {
	return []byte(key.String())
}

func readSeq(bucket *bolt.Bucket, key models.WarnKey) ([]models.WarnRecord, error) {
	data := bucket.Get(warnKey(key))
	if data == nil {
		return nil, nil
	}
	var seq []models.WarnRecord
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warns of %s: %w", key, err)
	}
	return seq, nil
}

func writeSeq(bucket *bolt.Bucket, key models.WarnKey, seq []models.WarnRecord) error {
	if len(seq) == 0 {
		return bucket.Delete(warnKey(key))
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return fmt.Errorf("failed to marshal warns of %s: %w", key, err)
	}
	return bucket.Put(warnKey(key), data)
}

func warnsBucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	bucket := tx.Bucket(BucketWarns)
	if bucket == nil {
		return nil, fmt.Errorf("bucket not found: %s", BucketWarns)
	}
	return bucket, nil
}

// Append stores rec and returns the user's sequence in the same transaction
func (s *WarnStore) Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error) {
	var seq []models.WarnRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := warnsBucket(tx)
		if err != nil {
			return err
		}
		seq, err = readSeq(bucket, rec.Key())
		if err != nil {
			return err
		}
		seq = append(seq, rec)
		slices.SortStableFunc(seq, func(a, b models.WarnRecord) int {
			return a.IssuedAt.Compare(b.IssuedAt)
		})
		return writeSeq(bucket, rec.Key(), seq)
	})
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// List returns the user's sequence
func (s *WarnStore) List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	var seq []models.WarnRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket, err := warnsBucket(tx)
		if err != nil {
			return err
		}
		seq, err = readSeq(bucket, key)
		return err
	})
	return seq, err
}

// DeleteRecent removes the n newest records
func (s *WarnStore) DeleteRecent(ctx context.Context, key models.WarnKey, n int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := warnsBucket(tx)
		if err != nil {
			return err
		}
		seq, err := readSeq(bucket, key)
		if err != nil {
			return err
		}
		if n >= len(seq) {
			return bucket.Delete(warnKey(key))
		}
		return writeSeq(bucket, key, seq[:len(seq)-n])
	})
}

// DeleteBefore removes records issued before cutoff
func (s *WarnStore) DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := warnsBucket(tx)
		if err != nil {
			return err
		}
		seq, err := readSeq(bucket, key)
		if err != nil {
			return err
		}
		kept := slices.DeleteFunc(seq, func(rec models.WarnRecord) bool {
			return rec.IssuedAt.Before(cutoff)
		})
		removed = len(seq) - len(kept)
		if removed == 0 {
			return nil
		}
		return writeSeq(bucket, key, kept)
	})
	return removed, err
}

// Has reports whether the user has a ledger entry
func (s *WarnStore) Has(key models.WarnKey) bool {
	var exists bool
	s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(BucketWarns)
		if bucket == nil {
			return nil
		}
		exists = bucket.Get(warnKey(key)) != nil
		return nil
	})
	return exists
}
