package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createForceSubCommand() *command.Command {
	return command.NewCommand("forcesub", "Exige unirse a un canal para escribir", Category, h.forceSubHandler).
		WithOptions(toggleOption).
		AsAdmin()
}

func (h *handlers) forceSubHandler(ctx *command.Context) error {
	enabled, ok := parseToggle(ctx.Arg(0))
	if !ok {
		return usage(ctx)
	}
	s, err := h.admin.OnForceSubToggle(ctx.Ctx, ctx.ChatID, enabled)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if enabled && s.ForceSubChannel != "" {
		return ctx.Reply(fmt.Sprintf("📢 Suscripción obligatoria %s (%s).", onOff(true), s.ForceSubChannel))
	}
	return ctx.Reply("📢 Suscripción obligatoria " + onOff(enabled) + ".")
}

func (h *handlers) createSetChannelCommand() *command.Command {
	return command.NewCommand("setchannel", "Canal al que hay que unirse", Category, h.setChannelHandler).
		WithOptions(command.Option{Name: "canal", Description: "@canal o -100id", Required: true}).
		AsAdmin()
}

func (h *handlers) setChannelHandler(ctx *command.Context) error {
	if ctx.Arg(0) == "" {
		return usage(ctx)
	}
	channel, err := h.admin.OnSetForceSubChannel(ctx.Ctx, ctx.ChatID, ctx.Arg(0))
	if err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("✅ Canal configurado: %s. Asegúrate de que el bot sea administrador del canal.", channel))
}
