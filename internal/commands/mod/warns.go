package mod

import (
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) createWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		h.listWarns,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	)
}

// listWarns shows the live warns. Anyone may look up their own.
func (h *handlers) listWarns(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	target := ctx.GetUserOption("usuario")
	if target == nil {
		target = ctx.User()
	}

	_, live, err := h.Warns.CheckWarns(ctx.Context(), actorOf(ctx), keyOf(ctx, target.ID))
	if err != nil {
		return ctx.ReplyEphemeral(errorMessage(err, 0))
	}

	return ctx.ReplyEphemeralEmbed(warnListEmbed(target, live, h.Warns.Ledger().Now()))
}
