// Package main provides a utility to sync the bot's command list with the
// configured platform. On Telegram it publishes the list shown in clients;
// on Discord it removes stale slash commands and registers the current ones.
//
// Usage:
//
//	go run cmd/sync-commands/main.go [options]
//
// Options:
//
//	-list           List all registered commands (Discord only)
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a specific guild instead of global commands (Discord only)
//	-sync           Sync commands (remove stale, register current) - default behavior
package main

import (
	"flag"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PancyStudios/PancyGuard/internal/commands"
	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
	"github.com/PancyStudios/PancyGuard/pkg/discord"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/telegram"
)

func main() {
	// Parse command line flags
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	syncCmd := flag.Bool("sync", false, "Sync commands (remove stale, register current)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

	// The registry only needs command metadata; the handlers are never run here
	svc := moderation.NewService(moderation.Deps{Store: moderation.NewMemorySettingsStore()})
	registry := commands.RegisterAll(svc.Admin(), nil, nil)

	if cfg.Platform == config.PlatformTelegram {
		runTelegram(cfg, registry, *cleanCmd)
	} else {
		runDiscord(cfg, registry, *listCmd, *cleanCmd, *syncCmd, *guildID)
	}

	logger.Success("Operación completada exitosamente", "SyncCommands")
}

func runTelegram(cfg *config.Config, registry *command.Registry, clean bool) {
	client, err := telegram.NewClient(cfg.Token())
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Telegram client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	if clean {
		if _, err := client.API.Request(tgbotapi.NewSetMyCommands()); err != nil {
			logger.Error(fmt.Sprintf("Error eliminando comandos: %v", err), "SyncCommands")
			return
		}
		logger.Success("✅ Todos los comandos han sido eliminados", "SyncCommands")
		return
	}

	if err := client.SyncCommands(registry); err != nil {
		logger.Error(fmt.Sprintf("Error sincronizando comandos: %v", err), "SyncCommands")
	}
}

func runDiscord(cfg *config.Config, registry *command.Registry, list, clean, sync bool, guildID string) {
	client, err := discord.NewClient(cfg.Token(), registry)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	// Open connection to Discord
	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer client.Session.Close()

	logger.Success("Conectado a Discord", "SyncCommands")
	client.CommandHandler.LoadCommands()

	// Execute the requested action
	switch {
	case list:
		listCommands(client, guildID)
	case clean:
		cleanCommands(client, guildID)
	case sync:
		syncCommands(client, guildID)
	default:
		// Default: sync commands
		syncCommands(client, guildID)
	}
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("📋 Listando comandos registrados...", "SyncCommands")

	cmds, err := client.CommandHandler.ListCommands(guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error obteniendo comandos: %v", err), "SyncCommands")
		return
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", "SyncCommands")
		return
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🧹 Eliminando todos los comandos...", "SyncCommands")

	if err := client.CommandHandler.UnregisterCommands(guildID); err != nil {
		logger.Error(fmt.Sprintf("Error eliminando comandos: %v", err), "SyncCommands")
		return
	}

	logger.Success("✅ Todos los comandos han sido eliminados", "SyncCommands")
}

// syncCommands replaces the registered commands with the current ones
func syncCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🔄 Sincronizando comandos...", "SyncCommands")

	if err := client.CommandHandler.SyncCommands(guildID); err != nil {
		logger.Error(fmt.Sprintf("Error sincronizando comandos: %v", err), "SyncCommands")
		return
	}
	logger.Success("✅ Comandos sincronizados correctamente", "SyncCommands")
}
