package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createBanCommand() *command.Command {
	return command.NewCommand("ban", "Banea a un usuario del chat", Category, h.banHandler).
		WithOptions(userOption, command.Option{Name: "razon", Description: "Razón del baneo"}).
		AsAdmin()
}

func (h *handlers) banHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}
	if ctx.Target.ID == ctx.User.ID {
		return ctx.Reply("❌ No puedes banearte a ti mismo.")
	}
	reason := reasonOrDefault(ctx.Rest(0))

	if err := h.admin.OnPunish(ctx.Ctx, ctx.ChatID, ctx.Target.ID, ctx.User.ID, moderation.ActionBan, 0, reason); err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("🔨 %s ha sido baneado.\nRazón: %s", targetName(ctx.Target), reason))
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return "Sin motivo"
	}
	return reason
}
