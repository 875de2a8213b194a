// Package main is the entry point for VillagerBot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/VillagerBot/internal/commands"
	"github.com/PancyStudios/VillagerBot/internal/commands/mod"
	"github.com/PancyStudios/VillagerBot/internal/events"
	"github.com/PancyStudios/VillagerBot/internal/unban"
	"github.com/PancyStudios/VillagerBot/internal/warns"
	"github.com/PancyStudios/VillagerBot/pkg/config"
	"github.com/PancyStudios/VillagerBot/pkg/discord"
	"github.com/PancyStudios/VillagerBot/pkg/errors"
	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/PancyStudios/VillagerBot/pkg/mqtt"
	"github.com/PancyStudios/VillagerBot/pkg/web"
	"github.com/bwmarrin/discordgo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook, logger.WithDebug(!cfg.IsProd()))
	defer log.Close()

	logger.System("Iniciando VillagerBot...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	var discordClient *discord.ExtendedClient
	var sweeper *unban.Sweeper
	errors.Init(cfg.ErrorWebhook, func() {
		if sweeper != nil {
			sweeper.Stop()
		}
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
			}
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando el almacenamiento: %v", err), "Main")
		}
	}()
	logger.Info(fmt.Sprintf("Almacenamiento de advertencias: %s", store.name), "Main")

	mqttClientID := "villagerbot"
	if !cfg.IsProd() {
		mqttClientID = "villagerbot_canary"
	}
	mqttClient := mqtt.Init(cfg.MQTTBroker(), cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
	defer mqttClient.Destroy()

	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	moderator := discord.NewModerator(discordClient.Session)

	scheduler := unban.NewScheduler(store.unbans, moderator)
	scheduler.SetNotifier(mqttClient)
	// Permanent bans, manual or escalated, cancel pending unbans.
	executor := unban.Executor{Timeouter: moderator, Bans: scheduler}

	ledger := warns.NewLedger(store.warns)
	warnService := warns.NewService(ledger, executor, warns.PermissionAuthorizer{
		Required: discordgo.PermissionModerateMembers,
		Bypass:   discordgo.PermissionAdministrator,
	}, warns.WithNotifier(mqttClient))

	mqttClient.On("warns/count", mqtt.RequestHandler(warns.CountHandler(ledger)))

	sweeper = unban.NewSweeper(store.unbans, moderator, cfg.UnbanSweepInterval)
	sweeper.SetNotifier(mqttClient)

	opts := web.DefaultOptions()
	opts.WebhookURL = cfg.LogsWebServerHook
	opts.APIKey = cfg.APIKey
	webServer := web.Init(opts)
	web.SetupRoutes(webServer, web.Dependencies{
		Bot:     discordClient,
		Storage: store.status,
		Warns:   ledger,
		Preview: func(liveCount int) (string, time.Duration) {
			outcome := warns.Decide(liveCount)
			return outcome.Action.String(), outcome.Duration
		},
	})
	webServer.StartAsync(cfg.Port)

	commands.RegisterAll(discordClient, commands.Deps{
		Mod: mod.Deps{
			Warns:     warnService,
			TempBans:  scheduler,
			Moderator: executor,
		},
		StorageStatus: store.status,
	})
	events.RegisterAll(discordClient)

	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Overdue unbans from a previous run are lifted once the gateway is up.
	sweeper.Start(ctx)

	logger.Success("VillagerBot iniciado correctamente! Hrmmm!", "Main")

	<-ctx.Done()
	logger.System("Apagando VillagerBot...", "Main")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}

	if err := discordClient.Stop(); err != nil {
		logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
