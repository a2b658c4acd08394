package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// createStatusCommand creates the /status command
func (h *handlers) createStatusCommand() *command.Command {
	return command.NewCommand("status", "Muestra el estado del bot", Category, h.statusHandler)
}

func (h *handlers) statusHandler(ctx *command.Context) error {
	dbStatus, _ := h.db.GetStatus()
	bot := "🔴 | Desconectado"
	if h.bot.IsReady() {
		bot = "🟢 | En linea"
	}

	return ctx.Reply(fmt.Sprintf(
		"📊 Estado del Bot\n"+
			"• Plataforma: %s\n"+
			"• Bot: %s\n"+
			"• Base de datos: %s",
		h.bot.Platform(),
		bot,
		dbStatus,
	))
}
