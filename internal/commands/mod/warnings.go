package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

func (h *handlers) createWarnsCommand() *command.Command {
	return command.NewCommand("warns", "Muestra las advertencias de un usuario", Category, h.warnsHandler).
		WithOptions(command.Option{Name: "usuario", Description: "Usuario (por defecto tú)", Type: command.OptionUser})
}

func (h *handlers) warnsHandler(ctx *command.Context) error {
	target := ctx.Target
	if target == nil {
		u := ctx.User
		target = &u
	}

	doc, err := h.admin.Warnings(ctx.Ctx, ctx.ChatID, target.ID)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	settings, err := h.admin.Settings(ctx.Ctx, ctx.ChatID)
	if err != nil {
		return ctx.Reply(userError(err))
	}

	if doc == nil || doc.Count == 0 {
		return ctx.Reply(fmt.Sprintf("✅ %s no tiene advertencias.", targetName(target)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ %s tiene %d/%d advertencias.\n", targetName(target), doc.Count, settings.MaxWarnings)
	for _, w := range doc.Recent(recentWarnings) {
		fmt.Fprintf(&b, "• %s · %s (%s)\n", w.Timestamp.Format("02/01/2006 15:04"), w.Reason, shortID(w.ID))
	}
	return ctx.Reply(b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
