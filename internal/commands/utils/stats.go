package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
)

// createStatsCommand creates the /stats command
func (h *handlers) createStatsCommand() *command.Command {
	return command.NewCommand("stats", "Muestra estadísticas del bot", Category, h.statsHandler)
}

func (h *handlers) statsHandler(ctx *command.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	dbLatency := "n/d"
	if d, err := h.db.Ping(); err == nil {
		dbLatency = fmt.Sprintf("%dms", d.Milliseconds())
	}

	return ctx.Reply(fmt.Sprintf(
		"📊 Estadísticas del Bot\n"+
			"🤖 Versión: %s\n"+
			"🐹 Go: %s\n"+
			"🖥 RAM: %.2f MB\n"+
			"⚙️ Goroutines: %d / %d CPUs\n"+
			"🗄 Latencia BD: %s\n"+
			"⏱ Uptime: %s",
		config.Version,
		strings.TrimPrefix(runtime.Version(), "go"),
		float64(m.Alloc)/1024/1024,
		runtime.NumGoroutine(), runtime.NumCPU(),
		dbLatency,
		formatDuration(h.bot.Uptime()),
	))
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d días", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d horas", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutos", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d segundos", seconds))
	}

	return strings.Join(parts, ", ")
}
