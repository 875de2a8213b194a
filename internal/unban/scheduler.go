package unban

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/google/uuid"
)

// Banner applies a permanent ban
type Banner interface {
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// Scheduler bans users and stores when the ban must be lifted
type Scheduler struct {
	store    Store
	banner   Banner
	now      func() time.Time
	notifier Notifier
}

// NewScheduler creates a Scheduler
func NewScheduler(store Store, banner Banner) *Scheduler {
	return &Scheduler{store: store, banner: banner, now: time.Now}
}

// SetNotifier attaches a Notifier
func (s *Scheduler) SetNotifier(n Notifier) {
	s.notifier = n
}

// Ban applies a permanent ban and cancels any pending unban of the user, so a
// running temporary ban cannot lift it later
func (s *Scheduler) Ban(ctx context.Context, guildID, userID, reason string) error {
	if err := s.banner.Ban(ctx, guildID, userID, reason); err != nil {
		return err
	}

	cancelled, err := s.store.CancelFor(ctx, guildID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("Baneo permanente de %s aplicado pero su desbaneo programado sigue activo: %v", userID, err), "Unban")
		return fmt.Errorf("ban applied, cancelling pending unban: %w", err)
	}
	if cancelled > 0 {
		logger.Info(fmt.Sprintf("%d desbaneos pendientes de %s en %s cancelados por baneo permanente", cancelled, userID, guildID), "Unban")
	}
	return nil
}

// TempBan bans the user and persists a pending unban due after d. When the
// ban succeeds but the store write fails the error is returned so the caller
// can tell the moderator the ban will not be lifted on its own.
func (s *Scheduler) TempBan(ctx context.Context, guildID, userID, reason string, d time.Duration) (models.PendingUnban, error) {
	if d <= 0 {
		return models.PendingUnban{}, fmt.Errorf("temp ban duration must be positive, got %v", d)
	}

	if err := s.banner.Ban(ctx, guildID, userID, reason); err != nil {
		return models.PendingUnban{}, fmt.Errorf("ban: %w", err)
	}

	now := s.now().UTC()
	p := models.PendingUnban{
		ID:        uuid.NewString(),
		GuildID:   guildID,
		UserID:    userID,
		Reason:    reason,
		DueAt:     now.Add(d),
		CreatedAt: now,
	}
	if err := s.store.Schedule(ctx, p); err != nil {
		logger.Error(fmt.Sprintf("Baneo de %s aplicado sin desbaneo programado: %v", userID, err), "Unban")
		return p, fmt.Errorf("schedule unban: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, models.ModerationEvent{
			Type:     models.EventTempBan,
			GuildID:  guildID,
			UserID:   userID,
			Reason:   reason,
			Action:   "ban",
			Duration: d,
			At:       now,
		})
	}
	logger.Info(fmt.Sprintf("Desbaneo de %s en %s programado para %s", userID, guildID, p.DueAt.Format(time.RFC3339)), "Unban")
	return p, nil
}
