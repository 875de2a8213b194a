// Package commands registers every slash command group of the bot
package commands

import (
	"github.com/PancyStudios/VillagerBot/internal/commands/mod"
	"github.com/PancyStudios/VillagerBot/internal/commands/utils"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
)

// Deps are the collaborators handed to the command groups
type Deps struct {
	Mod           mod.Deps
	StorageStatus utils.StorageStatus
}

// RegisterAll registers all command groups with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registrando comandos del bot...", "Commands")

	mod.RegisterModCommands(client, deps.Mod)
	utils.RegisterUtilsCommands(client, deps.StorageStatus)

	logger.Success("✅ Todos los comandos registrados correctamente", "Commands")
}
