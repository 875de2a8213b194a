// Package sqlstore provides SQLite-backed warn and unban storage.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS warns (
	id           TEXT PRIMARY KEY,
	guild_id     TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	moderator_id TEXT NOT NULL,
	reason       TEXT,
	issued_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_warns_user ON warns (guild_id, user_id, issued_at);

CREATE TABLE IF NOT EXISTS pending_unbans (
	id         TEXT PRIMARY KEY,
	guild_id   TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	reason     TEXT,
	due_at     INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pending_unbans_due ON pending_unbans (due_at);
`

// Store owns the SQLite connection
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer; one connection keeps transactions serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// WarnStore returns the warn backend of this database
func (s *Store) WarnStore() *WarnStore {
	return &WarnStore{db: s.db}
}

// UnbanStore returns the pending unban backend of this database
func (s *Store) UnbanStore() *UnbanStore {
	return &UnbanStore{db: s.db}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
