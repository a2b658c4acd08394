// Package utils provides the general purpose commands: help, ping, status
// and stats.
package utils

import (
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// Category groups the utility commands in /help
const Category = "utilidad"

// Bot is the platform client the commands report on
type Bot interface {
	Platform() string
	IsReady() bool
	Uptime() time.Duration
	Latency() time.Duration
}

// DB reports the database connection
type DB interface {
	GetStatus() (string, bool)
	Ping() (time.Duration, error)
}

type handlers struct {
	bot      Bot
	db       DB
	registry *command.Registry
}

// RegisterUtilsCommands registers the utility commands
func RegisterUtilsCommands(reg *command.Registry, bot Bot, db DB) {
	h := &handlers{bot: bot, db: db, registry: reg}

	reg.Register(h.createHelpCommand())
	reg.Register(h.createPingCommand())
	reg.Register(h.createStatusCommand())
	reg.Register(h.createStatsCommand())
}
