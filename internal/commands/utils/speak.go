package utils

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createSpeakCommand() *discord.Command {
	return discord.NewCommand(
		"speak",
		"Haz que el bot diga algo",
		"utils",
		speakHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mensaje",
			Description: "El mensaje que dirá el bot",
			Required:    true,
			MaxLength:   2000,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "canal",
			Description:  "(Opcional) Canal donde enviar el mensaje",
			Required:     false,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionManageMessages)
}

func speakHandler(ctx *discord.CommandContext) error {
	message := ctx.GetStringOption("mensaje")
	if message == "" {
		return ctx.ReplyEphemeral("❌ Debes escribir un mensaje.")
	}

	channel := ctx.GetChannelOption("canal")
	if channel == nil {
		return ctx.ReplyWithoutMentions(message)
	}

	if _, err := ctx.Session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:         message,
		AllowedMentions: discord.NoMentions(),
	}, discordgo.WithContext(ctx.Context())); err != nil {
		return ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo enviar el mensaje: %v", err))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Mensaje enviado en <#%s>", channel.ID))
}
