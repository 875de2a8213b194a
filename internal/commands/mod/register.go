// Package mod holds the /mod moderation commands. Warn bookkeeping goes
// through the warn service; manual bans and timeouts go straight to the
// moderator.
package mod

import (
	"context"
	"time"

	"github.com/PancyStudios/VillagerBot/internal/unban"
	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// Moderator applies manual moderation actions
type Moderator interface {
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// TempBanner bans a user and schedules the unban
type TempBanner interface {
	TempBan(ctx context.Context, guildID, userID, reason string, d time.Duration) (models.PendingUnban, error)
}

// Deps are the collaborators shared by every /mod handler
type Deps struct {
	Warns     *warns.Service
	TempBans  TempBanner
	Moderator Moderator
}

var _ TempBanner = (*unban.Scheduler)(nil)

type handlers struct {
	Deps
}

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, deps Deps) {
	h := &handlers{Deps: deps}

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		h.createWarnCommand(),
		h.createWarnsCommand(),
		h.createRemoveWarnsCommand(),
		h.createPruneWarnsCommand(),
		h.createTempBanCommand(),
		h.createBanCommand(),
		h.createMuteCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}

func actorOf(ctx *discord.CommandContext) warns.Actor {
	return warns.Actor{ID: ctx.User().ID, Permissions: ctx.Permissions()}
}

func keyOf(ctx *discord.CommandContext, userID string) models.WarnKey {
	return models.WarnKey{GuildID: ctx.Interaction.GuildID, UserID: userID}
}
