package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// WarnStore stores one row per warn
type WarnStore struct {
	db *sql.DB
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listWarns(ctx context.Context, q querier, key models.WarnKey) ([]models.WarnRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, guild_id, user_id, moderator_id, reason, issued_at
		FROM warns WHERE guild_id = ? AND user_id = ?
		ORDER BY issued_at ASC, rowid ASC
	`, key.GuildID, key.UserID)
	if err != nil {
		return nil, fmt.Errorf("list warns: %w", err)
	}
	defer rows.Close()

	var records []models.WarnRecord
	for rows.Next() {
		var rec models.WarnRecord
		var reason sql.NullString
		var issuedAt int64
		if err := rows.Scan(&rec.ID, &rec.GuildID, &rec.UserID, &rec.ModeratorID, &reason, &issuedAt); err != nil {
			return nil, fmt.Errorf("scan warn: %w", err)
		}
		rec.Reason = reason.String
		rec.IssuedAt = time.Unix(0, issuedAt).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Append inserts rec and reads the user's rows back in the same transaction
func (s *WarnStore) Append(ctx context.Context, rec models.WarnRecord) ([]models.WarnRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO warns (id, guild_id, user_id, moderator_id, reason, issued_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.GuildID, rec.UserID, rec.ModeratorID, nullString(rec.Reason), rec.IssuedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert warn: %w", err)
	}

	records, err := listWarns(ctx, tx, rec.Key())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return records, nil
}

// List returns the user's rows ordered by issue time
func (s *WarnStore) List(ctx context.Context, key models.WarnKey) ([]models.WarnRecord, error) {
	return listWarns(ctx, s.db, key)
}

// DeleteRecent removes the n newest rows of the user
func (s *WarnStore) DeleteRecent(ctx context.Context, key models.WarnKey, n int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM warns WHERE id IN (
			SELECT id FROM warns WHERE guild_id = ? AND user_id = ?
			ORDER BY issued_at DESC, rowid DESC LIMIT ?
		)
	`, key.GuildID, key.UserID, n)
	if err != nil {
		return fmt.Errorf("delete recent warns: %w", err)
	}
	return nil
}

// DeleteBefore removes rows issued before cutoff
func (s *WarnStore) DeleteBefore(ctx context.Context, key models.WarnKey, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM warns WHERE guild_id = ? AND user_id = ? AND issued_at < ?
	`, key.GuildID, key.UserID, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete expired warns: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Has reports whether the user has any row left
func (s *WarnStore) Has(ctx context.Context, key models.WarnKey) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM warns WHERE guild_id = ? AND user_id = ?)
	`, key.GuildID, key.UserID).Scan(&exists)
	return exists == 1, err
}
