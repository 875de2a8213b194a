package mod

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) createPruneWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"prunewarns",
		"Borra del historial las advertencias caducadas de un usuario",
		"mod",
		h.pruneWarns,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

func (h *handlers) pruneWarns(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	removed, err := h.Warns.PruneWarns(ctx.Context(), actorOf(ctx), keyOf(ctx, user.ID))
	if err != nil {
		return ctx.ReplyEphemeral(errorMessage(err, 0))
	}

	if removed == 0 {
		return ctx.ReplyEphemeral(fmt.Sprintf("✅ %s no tiene advertencias caducadas.", user.Mention()))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Se purgaron %d advertencias caducadas de %s.", removed, user.Mention()))
}
