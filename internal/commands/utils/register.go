// Package utils holds the /utils commands: greetings, latency, server info
// and the bot's status.
package utils

import (
	"github.com/PancyStudios/VillagerBot/pkg/discord"
)

// StorageStatus reports the warn backend state
type StorageStatus func() (status string, online bool)

// RegisterUtilsCommands registers the /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, storage StorageStatus) {
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createHelloCommand(),
		createPingCommand(),
		createServerInfoCommand(),
		createSpeakCommand(),
		createCoinflipCommand(),
		create8BallCommand(),
		createAttackCommand(),
		createStatusCommand(storage),
		createHelpCommand(),
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
