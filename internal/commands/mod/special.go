package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

func (h *handlers) createAutoDeletePinsCommand() *command.Command {
	return command.NewCommand("autodeletepins", "Borra los avisos de mensajes fijados", Category, h.autoDeletePinsHandler).
		WithOptions(toggleOption, command.Option{
			Name:        "retraso",
			Description: fmt.Sprintf("Segundos hasta desfijar y borrar el mensaje (0 lo conserva, máx. %d)", models.MaxPinDeleteDelay),
			Type:        command.OptionInteger,
		}).
		AsAdmin()
}

func (h *handlers) autoDeletePinsHandler(ctx *command.Context) error {
	enabled, ok := parseToggle(ctx.Arg(0))
	if !ok {
		return usage(ctx)
	}
	var delay *int
	if ctx.Arg(1) != "" {
		n, ok := ctx.IntArg(1)
		if !ok {
			return usage(ctx)
		}
		delay = &n
	}

	s, err := h.admin.OnAutoDeletePins(ctx.Ctx, ctx.ChatID, enabled, delay)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if !enabled {
		return ctx.Reply("📌 Borrado de avisos de fijado " + onOff(false) + ".")
	}
	if s.PinDeleteDelaySeconds == 0 {
		return ctx.Reply("📌 Borrado de avisos de fijado " + onOff(true) + ". Los mensajes fijados se conservan.")
	}
	return ctx.Reply(fmt.Sprintf("📌 Borrado de avisos de fijado %s. Los mensajes fijados se borran tras %d segundos.",
		onOff(true), s.PinDeleteDelaySeconds))
}

func (h *handlers) createAutoDeleteJoinsCommand() *command.Command {
	return command.NewCommand("autodeletejoins", "Borra los avisos de nuevos miembros", Category, h.autoDeleteJoinsHandler).
		WithOptions(toggleOption).
		AsAdmin()
}

func (h *handlers) autoDeleteJoinsHandler(ctx *command.Context) error {
	enabled, ok := parseToggle(ctx.Arg(0))
	if !ok {
		return usage(ctx)
	}
	if err := h.admin.OnAutoDeleteJoins(ctx.Ctx, ctx.ChatID, enabled); err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply("👋 Borrado de avisos de entrada " + onOff(enabled) + ".")
}
