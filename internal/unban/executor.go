package unban

import (
	"context"
	"time"
)

// Timeouter applies timeouts on the chat platform
type Timeouter interface {
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error
}

// Executor applies timeouts directly and routes permanent bans through the
// Scheduler so they override any running temporary ban
type Executor struct {
	Timeouter
	Bans *Scheduler
}

// Ban implements a permanent ban that survives pending unbans
func (e Executor) Ban(ctx context.Context, guildID, userID, reason string) error {
	return e.Bans.Ban(ctx, guildID, userID, reason)
}
