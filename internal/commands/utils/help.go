package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// createHelpCommand creates the /help command
func (h *handlers) createHelpCommand() *command.Command {
	return command.NewCommand("help", "Muestra información de ayuda", Category, h.helpHandler)
}

// helpHandler lists every registered command grouped by category
func (h *handlers) helpHandler(ctx *command.Context) error {
	return ctx.Reply(helpText(h.registry, ctx.Privileged))
}

func helpText(reg *command.Registry, privileged bool) string {
	var b strings.Builder
	b.WriteString("📖 Ayuda de PancyGuard\n")

	names, groups := reg.Categories()
	for _, cat := range names {
		var lines []string
		for _, cmd := range groups[cat] {
			if cmd.AdminOnly && !privileged {
				continue
			}
			lines = append(lines, fmt.Sprintf("• %s - %s", cmd.Usage(), cmd.Description))
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", strings.ToUpper(cat), strings.Join(lines, "\n"))
	}
	if !privileged {
		b.WriteString("\nLos administradores ven además los comandos de configuración.")
	}
	return b.String()
}
