package warns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/PancyStudios/VillagerBot/pkg/metrics"
	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// Actor is whoever invoked a moderation command
type Actor struct {
	ID          string
	Permissions int64
}

// Authorizer decides whether an actor may moderate
type Authorizer interface {
	CanModerate(actor Actor) bool
}

// PermissionAuthorizer allows actors holding every bit of Required, or every
// bit of Bypass when it is set. A zero Required denies everyone.
type PermissionAuthorizer struct {
	Required int64
	Bypass   int64
}

// CanModerate implements Authorizer
func (a PermissionAuthorizer) CanModerate(actor Actor) bool {
	if a.Bypass != 0 && actor.Permissions&a.Bypass == a.Bypass {
		return true
	}
	if a.Required == 0 {
		return false
	}
	return actor.Permissions&a.Required == a.Required
}

// Executor applies moderation actions on the chat platform
type Executor interface {
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// Notifier receives an event after every ledger change
type Notifier interface {
	Notify(ctx context.Context, ev models.ModerationEvent)
}

// Service is the warn-issuance flow: authorization, bookkeeping, escalation and
// execution. It is built once at startup and shared by every handler.
type Service struct {
	ledger   *Ledger
	executor Executor
	auth     Authorizer
	notifier Notifier
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithNotifier attaches a Notifier
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// NewService creates the warn service
func NewService(ledger *Ledger, executor Executor, auth Authorizer, opts ...ServiceOption) *Service {
	s := &Service{
		ledger:   ledger,
		executor: executor,
		auth:     auth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CanModerate reports whether actor passes the moderation check
func (s *Service) CanModerate(actor Actor) bool {
	return s.auth.CanModerate(actor)
}

// Ledger returns the underlying warn store
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// WarnResult describes a recorded warn and what the escalation did with it
type WarnResult struct {
	Record    models.WarnRecord
	LiveCount int
	Outcome   Outcome
	// ExecErr is set when the moderation action failed. The warn is recorded anyway.
	ExecErr error
}

// Summary returns the acknowledgement shown to the moderator
func (r *WarnResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ <@%s> ha sido advertido.\n", r.Record.UserID)
	fmt.Fprintf(&b, "**Razón:** %s\n", reasonOrDefault(r.Record.Reason))
	fmt.Fprintf(&b, "**Advertencias activas:** %d\n", r.LiveCount)

	switch r.Outcome.Action {
	case ActionTimeout:
		fmt.Fprintf(&b, "**Acción:** aislamiento de %s", FormatDays(r.Outcome.Duration))
	case ActionBan:
		b.WriteString("**Acción:** baneo permanente")
	default:
		b.WriteString("**Acción:** ninguna")
	}
	if r.ExecErr != nil {
		fmt.Fprintf(&b, "\n❌ No se pudo aplicar la acción: %v", r.ExecErr)
	}
	return b.String()
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "Sin razón especificada"
	}
	return reason
}

// FormatDays renders a whole-day duration in Spanish
func FormatDays(d time.Duration) string {
	days := int(d / day)
	if days == 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", days)
}

// Warn records a warn for key, evaluates the escalation policy on the new live
// count and executes the resulting action. Only ErrUnauthorized and storage
// failures are returned as errors; an executor failure is reported in the result.
func (s *Service) Warn(ctx context.Context, actor Actor, key models.WarnKey, reason string) (*WarnResult, error) {
	if !s.auth.CanModerate(actor) {
		return nil, ErrUnauthorized
	}

	rec, count, err := s.ledger.RecordWarn(ctx, key, actor.ID, reason)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo registrar la advertencia de %s: %v", key, err), "Warns")
		return nil, err
	}
	metrics.WarnsIssued.Inc()

	result := &WarnResult{
		Record:    rec,
		LiveCount: count,
		Outcome:   Decide(count),
	}

	if !result.Outcome.IsNone() {
		result.ExecErr = s.execute(ctx, key, result.Outcome, count, reason)
		status := "ok"
		if result.ExecErr != nil {
			status = "error"
			logger.Warn(fmt.Sprintf("Acción %s sobre %s falló: %v", result.Outcome, key, result.ExecErr), "Warns")
		}
		metrics.EscalationActions.WithLabelValues(result.Outcome.Action.String(), status).Inc()
	}

	logger.Info(fmt.Sprintf("Advertencia registrada para %s (activas: %d, acción: %s)", key, count, result.Outcome), "Warns")

	ev := s.event(models.EventWarnIssued, key, actor.ID, count)
	ev.Reason = reason
	ev.Action = result.Outcome.Action.String()
	ev.Duration = result.Outcome.Duration
	if result.ExecErr != nil {
		ev.ActionError = result.ExecErr.Error()
	}
	s.notify(ctx, ev)

	return result, nil
}

func (s *Service) execute(ctx context.Context, key models.WarnKey, outcome Outcome, count int, reason string) error {
	auditReason := fmt.Sprintf("Advertencia #%d: %s", count, reasonOrDefault(reason))

	var err error
	switch outcome.Action {
	case ActionTimeout:
		until := s.ledger.Now().Add(outcome.Duration)
		err = s.executor.Timeout(ctx, key.GuildID, key.UserID, until, auditReason)
	case ActionBan:
		err = s.executor.Ban(ctx, key.GuildID, key.UserID, auditReason)
	}
	if err != nil {
		return &ExecutorError{Action: outcome.Action, Err: err}
	}
	return nil
}

// CheckWarns returns the live count and the live warns of key
func (s *Service) CheckWarns(ctx context.Context, actor Actor, key models.WarnKey) (int, []models.WarnRecord, error) {
	if !s.auth.CanModerate(actor) && actor.ID != key.UserID {
		return 0, nil, ErrUnauthorized
	}

	live, err := s.ledger.Live(ctx, key)
	if err != nil {
		return 0, nil, err
	}
	return len(live), live, nil
}

// RemoveWarns deletes the amount most recent warns of key and returns the new
// live count. Previously applied actions are not reverted.
func (s *Service) RemoveWarns(ctx context.Context, actor Actor, key models.WarnKey, amount int) (int, error) {
	if !s.auth.CanModerate(actor) {
		return 0, ErrUnauthorized
	}

	remaining, err := s.ledger.RemoveRecent(ctx, key, amount)
	if err != nil {
		return remaining, err
	}
	metrics.WarnsRemoved.Add(float64(amount))
	logger.Info(fmt.Sprintf("%d advertencias eliminadas de %s por %s (activas: %d)", amount, key, actor.ID, remaining), "Warns")

	s.notify(ctx, s.event(models.EventWarnsRemoved, key, actor.ID, remaining))
	return remaining, nil
}

// PruneWarns physically deletes the expired warns of key
func (s *Service) PruneWarns(ctx context.Context, actor Actor, key models.WarnKey) (int, error) {
	if !s.auth.CanModerate(actor) {
		return 0, ErrUnauthorized
	}

	removed, err := s.ledger.PruneExpired(ctx, key)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info(fmt.Sprintf("%d advertencias caducadas purgadas de %s", removed, key), "Warns")
		live, err := s.ledger.LiveCount(ctx, key)
		if err != nil {
			// The prune happened; only the event is skipped.
			logger.Warn(fmt.Sprintf("Purga de %s sin evento, no se pudo leer el conteo: %v", key, err), "Warns")
			return removed, nil
		}
		ev := s.event(models.EventWarnsPruned, key, actor.ID, live)
		ev.Reason = fmt.Sprintf("%d purgadas", removed)
		s.notify(ctx, ev)
	}
	return removed, nil
}

func (s *Service) event(t models.ModerationEventType, key models.WarnKey, moderatorID string, count int) models.ModerationEvent {
	return models.ModerationEvent{
		Type:        t,
		GuildID:     key.GuildID,
		UserID:      key.UserID,
		ModeratorID: moderatorID,
		LiveCount:   count,
		At:          s.ledger.Now().UTC(),
	}
}

func (s *Service) notify(ctx context.Context, ev models.ModerationEvent) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, ev)
	}
}
