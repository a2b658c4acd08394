package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// maxMuteMinutes is 28 days, the longest timeout Discord accepts
const maxMuteMinutes = 40320

func (h *handlers) createMuteCommand() *command.Command {
	return command.NewCommand("mute", "Silencia a un usuario", Category, h.muteHandler).
		WithOptions(
			userOption,
			command.Option{Name: "duracion", Description: "Duración en minutos (vacío = indefinido)", Type: command.OptionInteger},
			command.Option{Name: "razon", Description: "Razón del silencio"},
		).
		AsAdmin()
}

func (h *handlers) muteHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}
	if ctx.Target.ID == ctx.User.ID {
		return ctx.Reply("❌ No puedes silenciarte a ti mismo.")
	}

	var minutes int
	reasonFrom := 0
	if n, ok := ctx.IntArg(0); ok {
		if n < 1 || n > maxMuteMinutes {
			return ctx.Reply(fmt.Sprintf("❌ La duración debe estar entre 1 y %d minutos.", maxMuteMinutes))
		}
		minutes = n
		reasonFrom = 1
	}
	reason := reasonOrDefault(ctx.Rest(reasonFrom))

	d := time.Duration(minutes) * time.Minute
	if err := h.admin.OnPunish(ctx.Ctx, ctx.ChatID, ctx.Target.ID, ctx.User.ID, moderation.ActionMute, d, reason); err != nil {
		return ctx.Reply(userError(err))
	}
	if minutes == 0 {
		return ctx.Reply(fmt.Sprintf("🔇 %s ha sido silenciado.\nRazón: %s", targetName(ctx.Target), reason))
	}
	return ctx.Reply(fmt.Sprintf("🔇 %s ha sido silenciado durante %d minutos.\nRazón: %s", targetName(ctx.Target), minutes, reason))
}
