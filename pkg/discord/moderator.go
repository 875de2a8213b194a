package discord

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Moderator applies timeouts, bans and unbans through the Discord REST API.
// Every call carries the reason to the guild's audit log.
type Moderator struct {
	session *discordgo.Session
}

// NewModerator creates a Moderator bound to session
func NewModerator(session *discordgo.Session) *Moderator {
	return &Moderator{session: session}
}

// Timeout isolates the member until the given instant
func (m *Moderator) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return m.session.GuildMemberTimeout(guildID, userID, &until,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
}

// ClearTimeout lifts an active timeout
func (m *Moderator) ClearTimeout(ctx context.Context, guildID, userID, reason string) error {
	return m.session.GuildMemberTimeout(guildID, userID, nil,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
}

// Ban bans the user without deleting their messages
func (m *Moderator) Ban(ctx context.Context, guildID, userID, reason string) error {
	return m.session.GuildBanCreateWithReason(guildID, userID, reason, 0,
		discordgo.WithContext(ctx),
	)
}

// Unban lifts the user's ban. A ban that no longer exists counts as lifted.
func (m *Moderator) Unban(ctx context.Context, guildID, userID, reason string) error {
	err := m.session.GuildBanDelete(guildID, userID,
		discordgo.WithContext(ctx),
		discordgo.WithAuditLogReason(reason),
	)
	if isUnknownBan(err) {
		return nil
	}
	return err
}

func isUnknownBan(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	return restErr.Message.Code == discordgo.ErrCodeUnknownBan
}
