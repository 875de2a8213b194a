package utils

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func createServerInfoCommand() *discord.Command {
	return discord.NewCommand(
		"serverinfo",
		"Muestra información del servidor",
		"utils",
		serverInfoHandler,
	)
}

func serverInfoHandler(ctx *discord.CommandContext) error {
	guild := ctx.Guild()
	if guild == nil {
		return ctx.ReplyEphemeral("❌ Este comando solo se puede usar en un servidor.")
	}
	return ctx.ReplyEmbed(serverInfoEmbed(guild))
}

func serverInfoEmbed(guild *discordgo.Guild) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Info", guild.Name),
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Dueño", Value: fmt.Sprintf("<@%s>", guild.OwnerID), Inline: false},
			{Name: "Miembros", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
		},
	}

	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Creado",
			Value:  created.Format("02/01/2006"),
			Inline: true,
		})
	}
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}
	return embed
}
