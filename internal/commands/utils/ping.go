package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// createPingCommand creates the /ping command
func (h *handlers) createPingCommand() *command.Command {
	return command.NewCommand("ping", "Comprueba la latencia del bot", Category, h.pingHandler)
}

func (h *handlers) pingHandler(ctx *command.Context) error {
	latency := h.bot.Latency().Milliseconds()
	return ctx.Reply(fmt.Sprintf("🏓 Pong! Latencia: %dms", latency))
}
