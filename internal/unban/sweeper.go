// Package unban keeps temporary bans durable. A temporary ban is stored as a
// pending unban before the handler returns, and a sweeper lifts every due
// entry, including the ones that came due while the bot was offline.
package unban

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/PancyStudios/VillagerBot/pkg/metrics"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the sweep period when none is configured
const DefaultInterval = time.Minute

// maxParallel bounds concurrent unban calls per sweep
const maxParallel = 4

// Store persists pending unbans
type Store interface {
	Schedule(ctx context.Context, p models.PendingUnban) error
	Due(ctx context.Context, now time.Time) ([]models.PendingUnban, error)
	Complete(ctx context.Context, id string) error
	// CancelFor drops every pending unban of a user, used when a ban becomes permanent
	CancelFor(ctx context.Context, guildID, userID string) (int, error)
}

// Unbanner lifts a ban on the chat platform
type Unbanner interface {
	Unban(ctx context.Context, guildID, userID, reason string) error
}

// Notifier receives an event for every lifted ban and scheduled temp ban
type Notifier interface {
	Notify(ctx context.Context, ev models.ModerationEvent)
}

// Sweeper periodically lifts due bans
type Sweeper struct {
	store    Store
	unbanner Unbanner
	interval time.Duration
	now      func() time.Time
	notifier Notifier

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper. A non-positive interval uses DefaultInterval.
func NewSweeper(store Store, unbanner Unbanner, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		store:    store,
		unbanner: unbanner,
		interval: interval,
		now:      time.Now,
	}
}

// SetNotifier attaches a Notifier. It must be called before Start.
func (s *Sweeper) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start runs a recovery sweep right away and then one every interval until
// Stop is called or ctx is done
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	// The goroutine owns its own ctx and done: Stop clears the fields.
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go func() {
		defer close(done)

		if n, err := s.Sweep(ctx); err != nil {
			logger.Error(fmt.Sprintf("Barrido inicial de desbaneos falló: %v", err), "Unban")
		} else if n > 0 {
			logger.Info(fmt.Sprintf("%d desbaneos pendientes recuperados", n), "Unban")
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Sweep(ctx); err != nil {
					logger.Error(fmt.Sprintf("Barrido de desbaneos falló: %v", err), "Unban")
				}
			}
		}
	}()

	logger.System(fmt.Sprintf("Barrido de desbaneos cada %v", s.interval), "Unban")
}

// Stop halts the sweeper and waits for the running sweep to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Sweep unbans every due entry and returns how many were lifted. Entries whose
// unban fails stay stored for the next sweep.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	due, err := s.store.Due(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("listing due unbans: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	var (
		mu     sync.Mutex
		lifted int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, p := range due {
		g.Go(func() error {
			if err := s.unbanner.Unban(gctx, p.GuildID, p.UserID, "Fin del baneo temporal"); err != nil {
				metrics.UnbansProcessed.WithLabelValues("error").Inc()
				logger.Warn(fmt.Sprintf("No se pudo desbanear a %s en %s: %v", p.UserID, p.GuildID, err), "Unban")
				return nil
			}
			if err := s.store.Complete(gctx, p.ID); err != nil {
				metrics.UnbansProcessed.WithLabelValues("error").Inc()
				logger.Error(fmt.Sprintf("Desbaneo %s aplicado pero no se pudo marcar como completado: %v", p.ID, err), "Unban")
				return nil
			}
			metrics.UnbansProcessed.WithLabelValues("ok").Inc()
			logger.Success(fmt.Sprintf("Usuario %s desbaneado en %s", p.UserID, p.GuildID), "Unban")
			if s.notifier != nil {
				s.notifier.Notify(gctx, models.ModerationEvent{
					Type:    models.EventUnban,
					GuildID: p.GuildID,
					UserID:  p.UserID,
					Reason:  p.Reason,
					Action:  "unban",
					At:      s.now().UTC(),
				})
			}

			mu.Lock()
			lifted++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return lifted, ctx.Err()
}
