package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/pkg/config"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// CommandHandler builds slash commands from the registry and registers them
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// LoadCommands converts every registry command into a slash command
func (ch *CommandHandler) LoadCommands() {
	logger.System("Iniciando carga de comandos...", "CommandHandler")

	ch.slashCommands = ch.slashCommands[:0]
	for _, cmd := range ch.client.Commands.All() {
		ch.slashCommands = append(ch.slashCommands, ToApplicationCommand(cmd))
	}

	logger.System(fmt.Sprintf("Carga finalizada: %d comandos.", len(ch.slashCommands)), "CommandHandler")
}

// SlashCommands returns the loaded slash commands
func (ch *CommandHandler) SlashCommands() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

// RegisterCommands registers the slash commands with Discord. Outside
// production they go to the dev guild, where updates show up immediately.
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()

	guildID := ""
	if !cfg.IsProd() && cfg.DevGuildID != "" {
		guildID = cfg.DevGuildID
		logger.Info("🔄 Registrando comandos en el servidor de desarrollo "+guildID+"...", "CommandHandler")
	} else {
		logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	}

	if err := ch.SyncCommands(guildID); err != nil {
		logger.Error("Error registrando comandos: "+err.Error(), "CommandHandler")
		return
	}

	logger.Success("✅ Comandos registrados.", "CommandHandler")
}

// SyncCommands replaces the commands of guildID (global when empty) with
// the loaded ones. Commands missing from the registry are removed.
func (ch *CommandHandler) SyncCommands(guildID string) error {
	_, err := ch.client.Session.ApplicationCommandBulkOverwrite(
		ch.client.Session.State.User.ID,
		guildID,
		ch.slashCommands,
	)
	return err
}

// ListCommands returns the commands registered in guildID (global when empty)
func (ch *CommandHandler) ListCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, guildID)
}

// UnregisterCommands removes every command of guildID (global when empty)
func (ch *CommandHandler) UnregisterCommands(guildID string) error {
	commands, err := ch.ListCommands(guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		err := ch.client.Session.ApplicationCommandDelete(ch.client.Session.State.User.ID, guildID, cmd.ID)
		if err != nil {
			logger.Error("Error eliminando comando "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success(fmt.Sprintf("%d comandos eliminados.", len(commands)), "CommandHandler")
	return nil
}
