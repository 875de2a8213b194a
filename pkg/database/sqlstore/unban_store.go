package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// UnbanStore persists pending unbans
type UnbanStore struct {
	db *sql.DB
}

// Schedule stores or replaces a pending unban
func (s *UnbanStore) Schedule(ctx context.Context, p models.PendingUnban) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_unbans (id, guild_id, user_id, reason, due_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			due_at = excluded.due_at,
			reason = excluded.reason
	`, p.ID, p.GuildID, p.UserID, nullString(p.Reason), p.DueAt.UnixNano(), p.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("schedule unban: %w", err)
	}
	return nil
}

// Due returns the pending unbans due at now, earliest first
func (s *UnbanStore) Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, user_id, reason, due_at, created_at
		FROM pending_unbans WHERE due_at <= ? ORDER BY due_at ASC
	`, now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list due unbans: %w", err)
	}
	defer rows.Close()

	var due []models.PendingUnban
	for rows.Next() {
		var p models.PendingUnban
		var reason sql.NullString
		var dueAt, createdAt int64
		if err := rows.Scan(&p.ID, &p.GuildID, &p.UserID, &reason, &dueAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending unban: %w", err)
		}
		p.Reason = reason.String
		p.DueAt = time.Unix(0, dueAt).UTC()
		p.CreatedAt = time.Unix(0, createdAt).UTC()
		due = append(due, p)
	}
	return due, rows.Err()
}

// Complete removes a processed unban
func (s *UnbanStore) Complete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_unbans WHERE id = ?`, id)
	return err
}

// CancelFor removes every pending unban of the user in the guild
func (s *UnbanStore) CancelFor(ctx context.Context, guildID, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_unbans WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("cancel pending unbans: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
