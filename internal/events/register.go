// Package events wires gateway events to the bot's handlers
package events

import (
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
)

// RegisterAll registers every gateway event handler
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	RegisterReadyEvent(client)
	RegisterGuildEvents(client)
	RegisterModerationEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
