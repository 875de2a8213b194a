package mod

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		h.warn,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    false,
			MaxLength:   512,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers | discordgo.PermissionBanMembers)
}

func (h *handlers) warn(ctx *discord.CommandContext) error {
	if ctx.Interaction.GuildID == "" {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}

	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.Bot {
		return ctx.ReplyEphemeral("❌ No puedes advertir a un bot.")
	}
	if user.ID == ctx.User().ID {
		return ctx.ReplyEphemeral("❌ No puedes advertirte a ti mismo.")
	}

	actor := actorOf(ctx)
	if !h.Warns.CanModerate(actor) {
		return ctx.ReplyEphemeral(errorMessage(warns.ErrUnauthorized, 0))
	}

	if err := ctx.Defer(); err != nil {
		return err
	}

	result, err := h.Warns.Warn(ctx.Context(), actor, keyOf(ctx, user.ID), ctx.GetStringOption("razon"))
	if err != nil {
		return ctx.EditReply(errorMessage(err, 0))
	}

	guildName := ""
	if g := ctx.Guild(); g != nil {
		guildName = g.Name
	}
	if err := ctx.DM(user.ID, warnDM(result, guildName)); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo enviar MD a %s: %v", user.ID, err), "CMD-Warn")
	}

	return ctx.EditReplyEmbed(warnEmbed(result, ctx.User()))
}
