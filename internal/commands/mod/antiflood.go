package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createAntifloodCommand() *command.Command {
	return command.NewCommand("antiflood", "Configura la protección contra flood", Category, h.antifloodHandler).
		WithOptions(
			toggleOption,
			command.Option{Name: "limite", Description: "Mensajes permitidos en la ventana", Type: command.OptionInteger},
			command.Option{Name: "ventana", Description: "Ventana en segundos", Type: command.OptionInteger},
		).
		AsAdmin()
}

func (h *handlers) antifloodHandler(ctx *command.Context) error {
	enabled, ok := parseToggle(ctx.Arg(0))
	if !ok {
		return usage(ctx)
	}

	var limit, window *int
	if ctx.Arg(1) != "" {
		n, ok := ctx.IntArg(1)
		if !ok {
			return usage(ctx)
		}
		limit = &n
	}
	if ctx.Arg(2) != "" {
		n, ok := ctx.IntArg(2)
		if !ok {
			return usage(ctx)
		}
		window = &n
	}

	s, err := h.admin.OnAntiflood(ctx.Ctx, ctx.ChatID, enabled, limit, window)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if !s.AntifloodEnabled {
		return ctx.Reply("🌊 Antiflood " + onOff(false) + ".")
	}
	return ctx.Reply(fmt.Sprintf("🌊 Antiflood %s: máximo %d mensajes cada %d segundos.",
		onOff(true), s.AntifloodLimit, s.AntifloodWindowSeconds))
}
