// Package boltstore provides persistent warn and unban storage in a single
// BoltDB (bbolt) file.
package boltstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	// BucketWarns stores each user's warn sequence keyed by "guildId:userId"
	BucketWarns = []byte("warns")

	// BucketPendingUnbans stores scheduled unbans keyed by their ID
	BucketPendingUnbans = []byte("pending_unbans")
)

// Store wraps a BoltDB database
type Store struct {
	db *bolt.DB
}

// Options configures the BoltDB store
type Options struct {
	// Path to the database file. Parent directories are created if needed.
	Path string

	// Timeout for obtaining the file lock. Defaults to 5 seconds.
	Timeout time.Duration

	// FileMode used when creating the file. Defaults to 0600.
	FileMode os.FileMode
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Path:     filepath.Join("data", "villager.db"),
		Timeout:  5 * time.Second,
		FileMode: 0600,
	}
}

// Open creates or opens the database and its buckets
func Open(opts Options) (*Store, error) {
	def := DefaultOptions()
	if opts.Path == "" {
		opts.Path = def.Path
	}
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	if opts.FileMode == 0 {
		opts.FileMode = def.FileMode
	}

	dir := filepath.Dir(opts.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := bolt.Open(opts.Path, opts.FileMode, &bolt.Options{Timeout: opts.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{BucketWarns, BucketPendingUnbans} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WarnStore returns the warn backend of this database
func (s *Store) WarnStore() *WarnStore {
	return &WarnStore{db: s.db}
}

// UnbanStore returns the pending unban backend of this database
func (s *Store) UnbanStore() *UnbanStore {
	return &UnbanStore{db: s.db}
}
