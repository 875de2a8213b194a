package events

import (
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterModerationEvents logs bans lifted by anyone, the sweeper included
func RegisterModerationEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildBanRemove(onGuildBanRemove)
}

func onGuildBanRemove(s *discordgo.Session, b *discordgo.GuildBanRemove) {
	if b.User == nil {
		return
	}
	logger.Info(fmt.Sprintf("🔓 Baneo retirado: %s (%s) en %s", b.User.Username, b.User.ID, b.GuildID), "Moderation")
}
