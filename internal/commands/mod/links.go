package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/command"
)

// ConfirmationTTL is how long allowlist confirmations stay in the chat
const ConfirmationTTL = 5 * time.Second

func (h *handlers) createAddAllowedLinkCommand() *command.Command {
	return command.NewCommand("addallowedlink", "Permite enlaces de un dominio", Category, h.addAllowedLinkHandler).
		WithOptions(command.Option{Name: "dominio", Description: "Dominio o URL, p. ej. example.com", Required: true}).
		AsAdmin()
}

func (h *handlers) addAllowedLinkHandler(ctx *command.Context) error {
	if ctx.Arg(0) == "" {
		return usage(ctx)
	}
	domain, added, err := h.admin.OnAddAllowedDomain(ctx.Ctx, ctx.ChatID, ctx.Arg(0))
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if !added {
		return ctx.ReplyTemporary(fmt.Sprintf("ℹ️ %s ya estaba permitido.", domain), ConfirmationTTL)
	}
	return ctx.ReplyTemporary(fmt.Sprintf("✅ Enlaces de %s permitidos.", domain), ConfirmationTTL)
}

func (h *handlers) createRemoveAllowedLinkCommand() *command.Command {
	return command.NewCommand("removeallowedlink", "Deja de permitir enlaces de un dominio", Category, h.removeAllowedLinkHandler).
		WithOptions(command.Option{Name: "dominio", Description: "Dominio a quitar", Required: true}).
		AsAdmin()
}

func (h *handlers) removeAllowedLinkHandler(ctx *command.Context) error {
	if ctx.Arg(0) == "" {
		return usage(ctx)
	}
	domain, removed, err := h.admin.OnRemoveAllowedDomain(ctx.Ctx, ctx.ChatID, ctx.Arg(0))
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if !removed {
		return ctx.ReplyTemporary(fmt.Sprintf("ℹ️ %s no estaba en la lista.", domain), ConfirmationTTL)
	}
	return ctx.ReplyTemporary(fmt.Sprintf("🗑️ %s eliminado de la lista.", domain), ConfirmationTTL)
}

func (h *handlers) createAllowedLinksCommand() *command.Command {
	return command.NewCommand("allowedlinks", "Lista los dominios permitidos", Category, h.allowedLinksHandler)
}

func (h *handlers) allowedLinksHandler(ctx *command.Context) error {
	s, err := h.admin.Settings(ctx.Ctx, ctx.ChatID)
	if err != nil {
		return ctx.Reply(userError(err))
	}
	if len(s.AllowedDomains) == 0 {
		return ctx.Reply("ℹ️ No hay dominios permitidos.")
	}
	return ctx.Reply("🔗 Dominios permitidos:\n• " + strings.Join(s.AllowedDomains, "\n• "))
}
