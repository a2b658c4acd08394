// Package main is the entry point for PancyGuard.
// It initializes all systems and starts the configured chat platform.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/PancyGuard/internal/commands"
	"github.com/PancyStudios/PancyGuard/internal/events"
	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/config"
	"github.com/PancyStudios/PancyGuard/pkg/database"
	"github.com/PancyStudios/PancyGuard/pkg/discord"
	"github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/mqtt"
	"github.com/PancyStudios/PancyGuard/pkg/scheduler"
	"github.com/PancyStudios/PancyGuard/pkg/telegram"
	"github.com/PancyStudios/PancyGuard/pkg/web"
)

// bot is what main needs from a platform client
type bot interface {
	Start() error
	Stop() error
	Platform() string
	IsReady() bool
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	log.SetConsole(cfg.ConsoleLogs())
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando PancyGuard %s (%s)...", config.Version, cfg.Platform), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var client bot
	errors.Init(cfg.ErrorWebhook, func() {
		if client != nil {
			if err := client.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error deteniendo el bot: %v", err), "Main")
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database, it will attempt to reconnect
	}
	defer func() {
		if err := db.Disconnect(); err != nil {
			logger.Error(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
		}
	}()

	settingsStore := database.NewSettingsStore(db)
	warnStore := database.NewWarnStore(db)
	if db.Connected() {
		if err := settingsStore.Preload(context.Background()); err != nil {
			logger.Warn(fmt.Sprintf("Error precargando ajustes: %v", err), "Main")
		}
	}

	// Initialize MQTT
	mqttClientID := "pancyguard"
	if !cfg.IsProd() {
		mqttClientID = "pancyguard_canary"
	}
	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()
	events.RegisterMQTT(mqttClient, settingsStore, warnStore)

	sched := scheduler.New()
	defer sched.Stop()

	deps := moderation.Deps{
		Store:                  settingsStore,
		Warns:                  warnStore,
		Audit:                  events.NewAuditSink(mqttClient),
		Scheduler:              sched,
		DefaultForceSubChannel: cfg.ForceSubChannel,
	}

	// Initialize the chat platform
	switch cfg.Platform {
	case config.PlatformDiscord:
		client, err = startDiscord(cfg, deps, db)
	default:
		client, err = startTelegram(cfg, deps, db, log)
	}
	if err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando el bot: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := client.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error deteniendo el bot: %v", err), "Main")
		}
	}()

	// Initialize web server
	var reporter logger.Sink
	if cfg.LogsWebhook != "" {
		reporter = logger.NewWebhookSink(cfg.LogsWebhook)
	}
	webServer, err := web.Init(web.Options{
		AllowedHosts: cfg.AllowedHosts,
		Reporter:     reporter,
		RateLimit:    web.DefaultRateLimit(),
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupAPIRoutes(webServer, web.API{
		Bot:      client,
		DB:       db,
		Settings: settingsStore,
		Warnings: warnStore,
		APIKey:   cfg.APIKey,
		Version:  config.Version,
	})
	webServer.StartAsync(cfg.Port)

	logger.Success("PancyGuard iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyGuard...", "Main")
}

// startTelegram wires the moderation service to a Telegram client and starts polling
func startTelegram(cfg *config.Config, deps moderation.Deps, db *database.Database, log *logger.Logger) (bot, error) {
	tg, err := telegram.Init(cfg.Token())
	if err != nil {
		return nil, err
	}
	if cfg.LogChannelID != 0 {
		log.AddSink(telegram.NewChannelSink(tg, cfg.LogChannelID), logger.LevelWarn)
	}

	messenger := telegram.NewMessenger(tg, cfg.OwnerID)
	deps.Messenger = messenger
	deps.Authorizer = messenger
	deps.Members = messenger
	deps.Resolver = messenger
	deps.BotID = tg.ID()
	svc := moderation.NewService(deps)

	registry := commands.RegisterAll(svc.Admin(), tg, db)
	events.RegisterTelegram(tg, messenger, svc, registry)
	if err := tg.SyncCommands(registry); err != nil {
		logger.Warn(fmt.Sprintf("Error sincronizando comandos: %v", err), "Main")
	}

	if err := tg.Start(); err != nil {
		return nil, err
	}
	return tg, nil
}

// startDiscord wires the moderation service to a Discord session and opens the gateway.
// Discord has no channel subscription concept, so the force-sub gate stays open.
func startDiscord(cfg *config.Config, deps moderation.Deps, db *database.Database) (bot, error) {
	dc, err := discord.Init(cfg.Token(), nil)
	if err != nil {
		return nil, err
	}
	dc.OwnerID = cfg.OwnerID

	messenger := discord.NewMessenger(dc)
	deps.Messenger = messenger
	deps.Authorizer = messenger
	svc := moderation.NewService(deps)

	dc.Commands = commands.RegisterAll(svc.Admin(), dc, db)
	events.RegisterDiscord(dc, svc)

	if err := dc.Start(); err != nil {
		return nil, err
	}
	return dc, nil
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
