package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// Discord caps timeouts at 28 days
const maxMuteMinutes = 28 * 24 * 60

func (h *handlers) createMuteCommand() *discord.Command {
	minMinutes := 1.0
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		h.mute,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duracion",
			Description: "Duración en minutos",
			Required:    true,
			MinValue:    &minMinutes,
			MaxValue:    maxMuteMinutes,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

func (h *handlers) mute(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	minutes := ctx.GetIntOption("duracion")
	if minutes < 1 || minutes > maxMuteMinutes {
		return ctx.ReplyEphemeral("❌ La duración debe estar entre 1 minuto y 28 días.")
	}
	reason := reasonText(ctx.GetStringOption("razon"))

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := h.Moderator.Timeout(ctx.Context(), ctx.Interaction.GuildID, user.ID, until, reason); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al silenciar: %v", err))
	}

	return ctx.Reply(fmt.Sprintf("🔇 **%s** ha sido silenciado por %d minutos.\n**Razón:** %s",
		user.Username,
		minutes,
		reason,
	))
}
