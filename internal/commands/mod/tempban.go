package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const maxTempBanDays = 365

func (h *handlers) createTempBanCommand() *discord.Command {
	minDays := 1.0
	return discord.NewCommand(
		"tempban",
		"Banea a un usuario durante un número de días",
		"mod",
		h.tempBan,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Duración del baneo en días",
			Required:    true,
			MinValue:    &minDays,
			MaxValue:    maxTempBanDays,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del baneo",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

func (h *handlers) tempBan(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	days := ctx.GetIntOption("dias")
	if days < 1 || days > maxTempBanDays {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ La duración debe estar entre 1 y %d días.", maxTempBanDays))
	}
	reason := reasonText(ctx.GetStringOption("razon"))

	if err := ctx.Defer(); err != nil {
		return err
	}

	// Once banned the user no longer shares a guild with the bot, so DM first.
	notified := true
	if err := ctx.DM(user.ID, tempBanDM(days, reason)); err != nil {
		notified = false
		logger.Debug(fmt.Sprintf("No se pudo enviar MD a %s: %v", user.ID, err), "CMD-TempBan")
	}

	pending, err := h.TempBans.TempBan(ctx.Context(), ctx.Interaction.GuildID, user.ID, reason, time.Duration(days)*24*time.Hour)
	if err != nil {
		if pending.ID != "" {
			return ctx.EditReply(fmt.Sprintf("⚠️ **%s** fue baneado, pero no se pudo programar el desbaneo. Tendrás que desbanearlo manualmente.", user.Username))
		}
		if notified {
			if err := ctx.DM(user.ID, tempBanFailedDM()); err != nil {
				logger.Debug(fmt.Sprintf("No se pudo enviar MD a %s: %v", user.ID, err), "CMD-TempBan")
			}
		}
		return ctx.EditReply(fmt.Sprintf("❌ Error al banear: %v", err))
	}

	return ctx.EditReply(fmt.Sprintf("🔨 **%s** ha sido baneado durante %d días.\n**Razón:** %s\n**Desbaneo:** <t:%d:R>",
		user.Username, days, reason, pending.DueAt.Unix()))
}
