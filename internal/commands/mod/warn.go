package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

const recentWarnings = 5

func (h *handlers) createWarnCommand() *command.Command {
	return command.NewCommand("warn", "Advierte a un usuario", Category, h.warnHandler).
		WithOptions(userOption, command.Option{Name: "razon", Description: "Razón de la advertencia"}).
		AsAdmin()
}

func (h *handlers) warnHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}
	reason := ctx.Rest(0)
	if reason == "" {
		reason = "Sin motivo"
	}

	res, err := h.admin.OnWarn(ctx.Ctx, ctx.ChatID, ctx.Target.ID, ctx.User.ID, reason)
	if res.Escalated {
		text := fmt.Sprintf("⚠️ %s alcanzó %d/%d advertencias. %s",
			targetName(ctx.Target), res.Max, res.Max, moderation.EscalationText(res.Action, res.Max))
		if err != nil {
			text += "\n" + userError(err)
		}
		return ctx.Reply(text)
	}
	if err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("⚠️ %s ha sido advertido (%d/%d).\nRazón: %s",
		targetName(ctx.Target), res.Count, res.Max, reason))
}

func (h *handlers) createResetWarnCommand() *command.Command {
	return command.NewCommand("resetwarn", "Borra todas las advertencias de un usuario", Category, h.resetWarnHandler).
		WithOptions(userOption).
		AsAdmin()
}

func (h *handlers) resetWarnHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}
	if err := h.admin.OnResetWarn(ctx.Ctx, ctx.ChatID, ctx.Target.ID); err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("✅ Advertencias de %s reiniciadas.", targetName(ctx.Target)))
}

func (h *handlers) createSetWarnLimitCommand() *command.Command {
	return command.NewCommand("setwarnlimit", "Número de advertencias antes de sancionar", Category, h.setWarnLimitHandler).
		WithOptions(command.Option{Name: "limite", Description: fmt.Sprintf("Entre %d y %d", models.MinMaxWarnings, models.MaxMaxWarnings), Type: command.OptionInteger, Required: true}).
		AsAdmin()
}

func (h *handlers) setWarnLimitHandler(ctx *command.Context) error {
	n, ok := ctx.IntArg(0)
	if !ok {
		return usage(ctx)
	}
	if err := h.admin.OnSetWarnLimit(ctx.Ctx, ctx.ChatID, n); err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("✅ Límite de advertencias: %d.", n))
}

func (h *handlers) createSetWarnActionCommand() *command.Command {
	return command.NewCommand("setwarnaction", "Sanción al llegar al límite de advertencias", Category, h.setWarnActionHandler).
		WithOptions(command.Option{Name: "accion", Description: "Sanción", Required: true, Choices: []string{
			string(models.WarnActionBan), string(models.WarnActionKick), string(models.WarnActionMute),
		}}).
		AsAdmin()
}

func (h *handlers) setWarnActionHandler(ctx *command.Context) error {
	if ctx.Arg(0) == "" {
		return usage(ctx)
	}
	action, err := h.admin.OnSetWarnAction(ctx.Ctx, ctx.ChatID, ctx.Arg(0))
	if err != nil {
		return ctx.Reply(userError(err))
	}
	return ctx.Reply(fmt.Sprintf("✅ Acción al llegar al límite: %s.", action))
}
