package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createRemoveWarnCommand() *command.Command {
	return command.NewCommand("removewarn", "Quita una advertencia a un usuario", Category, h.removeWarnHandler).
		WithOptions(userOption, command.Option{Name: "id", Description: "ID de la advertencia (por defecto la última)"}).
		AsAdmin()
}

func (h *handlers) removeWarnHandler(ctx *command.Context) error {
	if ctx.Target == nil {
		return usage(ctx)
	}

	id := strings.TrimSpace(ctx.Arg(0))
	if id != "" {
		// accept the short form shown by /warns
		doc, err := h.admin.Warnings(ctx.Ctx, ctx.ChatID, ctx.Target.ID)
		if err != nil {
			return ctx.Reply(userError(err))
		}
		if doc != nil {
			for _, w := range doc.Warns {
				if strings.HasPrefix(w.ID, id) {
					id = w.ID
					break
				}
			}
		}
	}

	removed, remaining, err := h.admin.OnRemoveWarn(ctx.Ctx, ctx.ChatID, ctx.Target.ID, id)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if !removed {
		return ctx.Reply(fmt.Sprintf("ℹ️ No se encontró esa advertencia de %s.", targetName(ctx.Target)))
	}
	return ctx.Reply(fmt.Sprintf("✅ Advertencia eliminada. %s tiene ahora %d.", targetName(ctx.Target), remaining))
}
