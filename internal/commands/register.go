// Package commands assembles the command registry shared by both platforms.
// Commands are organized in subdirectories by category (mod, utils).
package commands

import (
	"github.com/PancyStudios/PancyGuard/internal/commands/mod"
	"github.com/PancyStudios/PancyGuard/internal/commands/utils"
	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// RegisterAll builds the registry with every command
func RegisterAll(admin *moderation.Admin, bot utils.Bot, db utils.DB) *command.Registry {
	reg := command.NewRegistry()

	// Utility commands (/help, /ping, /status, /stats)
	utils.RegisterUtilsCommands(reg, bot, db)

	// Moderation commands (/lock, /warn, /antiflood, /forcesub ...)
	mod.RegisterModCommands(reg, admin)

	return reg
}
