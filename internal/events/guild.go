package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// joinGrace separates a real join from the GuildCreate burst sent on connect
const joinGrace = 10 * time.Second

// RegisterGuildEvents registers the guild join/leave handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

func isFreshJoin(joinedAt, now time.Time) bool {
	return !joinedAt.Before(now.Add(-joinGrace))
}

func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !isFreshJoin(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}

	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Hrmmm! ¡Gracias por agregarme! 🎉",
		Description: "Soy **VillagerBot**. Usa `/utils help` para ver todos mis comandos.",
		Color:       0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔧 Moderación", Value: "Advertencias con escalado automático en `/mod`", Inline: true},
			{Name: "❓ Ayuda", Value: "Usa `/utils help` para más información", Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible temporalmente", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
