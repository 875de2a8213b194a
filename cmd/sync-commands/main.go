// Package main provides a utility to sync Discord slash commands.
// It talks to the REST API only, no gateway session is opened.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List all registered commands (global or guild)
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a specific guild instead of global commands
//	-sync           Replace the registered commands with the current ones (default)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/VillagerBot/internal/commands"
	"github.com/PancyStudios/VillagerBot/pkg/config"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
)

const prefix = "SyncCommands"

func main() {
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	flag.Bool("sync", true, "Sync commands (remove stale, register current)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, "", logger.WithDir(""))
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", prefix)

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), prefix)
		os.Exit(1)
	}

	me, err := client.Session.User("@me")
	if err != nil {
		logger.Critical(fmt.Sprintf("Error obteniendo la aplicación: %v", err), prefix)
		os.Exit(1)
	}
	appID := me.ID

	// Handlers are never run here, the command definitions are all we need.
	commands.RegisterAll(client, commands.Deps{})

	switch {
	case *listCmd:
		err = listCommands(client, appID, *guildID)
	case *cleanCmd:
		err = cleanCommands(client, appID, *guildID)
	default:
		err = syncCommands(client, appID, *guildID, cfg.DevGuildID)
	}
	if err != nil {
		logger.Error(err.Error(), prefix)
		os.Exit(1)
	}

	logger.Success("Operación completada exitosamente", prefix)
}

func scope(guildID string) string {
	if guildID == "" {
		return "globales"
	}
	return "del servidor " + guildID
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("📋 Listando comandos "+scope(guildID)+"...", prefix)

	cmds, err := client.CommandHandler.ListCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("error obteniendo comandos: %w", err)
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", prefix)
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), prefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), prefix)
	}
	return nil
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("🧹 Eliminando comandos "+scope(guildID)+"...", prefix)

	if _, err := client.CommandHandler.UnregisterCommands(appID, guildID); err != nil {
		return fmt.Errorf("error eliminando comandos: %w", err)
	}
	return nil
}

// syncCommands replaces the registered commands with the current definitions.
// The dev guild receives the dev commands, any other target the global ones.
func syncCommands(client *discord.ExtendedClient, appID, guildID, devGuildID string) error {
	logger.Info("🔄 Sincronizando comandos "+scope(guildID)+"...", prefix)

	cmds := client.CommandHandler.GlobalCommands()
	if guildID != "" && guildID == devGuildID {
		cmds = client.CommandHandler.DevCommands()
	}

	if err := client.CommandHandler.SyncCommands(appID, guildID, cmds); err != nil {
		return err
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados", len(cmds)), prefix)
	return nil
}
