package mod

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) createRemoveWarnsCommand() *discord.Command {
	minAmount := 1.0
	return discord.NewCommand(
		"removewarns",
		"Elimina las advertencias más recientes de un usuario",
		"mod",
		h.removeWarns,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cuántas advertencias eliminar",
			Required:    true,
			MinValue:    &minAmount,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// removeWarns deletes the most recent warns. Actions already applied stay.
func (h *handlers) removeWarns(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	amount := int(ctx.GetIntOption("cantidad"))

	remaining, err := h.Warns.RemoveWarns(ctx.Context(), actorOf(ctx), keyOf(ctx, user.ID), amount)
	if err != nil {
		return ctx.ReplyEphemeral(errorMessage(err, remaining))
	}

	return ctx.ReplyEmbed(&discordgo.MessageEmbed{
		Title: "🧹 - Advertencias eliminadas",
		Description: fmt.Sprintf("Se eliminaron **%d** advertencias de %s.\n**Advertencias activas:** %d",
			amount, user.Mention(), remaining),
		Color:  colorOK,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	})
}
