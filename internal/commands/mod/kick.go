package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createKickCommand() *command.Command {
	return command.NewCommand("kick", "Expulsa a un usuario del chat", Category, h.kickHandler).
		WithOptions(userOption, command.Option{Name: "razon", Description: "Razón de la expulsión"}).
		AsAdmin()
}

func (h *handlers) kickHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}
	if ctx.Target.ID == ctx.User.ID {
		return ctx.Reply("❌ No puedes expulsarte a ti mismo.")
	}
	reason := reasonOrDefault(ctx.Rest(0))

	if err := h.admin.OnPunish(ctx.Ctx, ctx.ChatID, ctx.Target.ID, ctx.User.ID, moderation.ActionKick, 0, reason); err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("👢 %s ha sido expulsado.\nRazón: %s", targetName(ctx.Target), reason))
}
