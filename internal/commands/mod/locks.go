package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

func lockChoices() []string {
	out := make([]string, len(models.LockPrecedence))
	for i, lt := range models.LockPrecedence {
		out[i] = string(lt)
	}
	return out
}

func (h *handlers) createLockCommand() *command.Command {
	return command.NewCommand("lock", "Bloquea un tipo de contenido", Category, h.lockHandler(true)).
		WithOptions(command.Option{Name: "tipo", Description: "Tipo de contenido", Required: true, Choices: lockChoices()}).
		AsAdmin()
}

func (h *handlers) createUnlockCommand() *command.Command {
	return command.NewCommand("unlock", "Desbloquea un tipo de contenido", Category, h.lockHandler(false)).
		WithOptions(command.Option{Name: "tipo", Description: "Tipo de contenido", Required: true, Choices: lockChoices()}).
		AsAdmin()
}

func (h *handlers) lockHandler(enable bool) command.RunFunc {
	return func(ctx *command.Context) error {
		if ctx.Arg(0) == "" {
			return usage(ctx)
		}
		lt, err := h.admin.OnLock(ctx.Ctx, ctx.ChatID, ctx.Arg(0), enable)
		if err != nil {
			return ctx.Reply(userError(err) + "\nTipos: " + strings.Join(lockChoices(), ", "))
		}
		if enable {
			return ctx.Reply(fmt.Sprintf("🔒 %s están bloqueados en este chat.", moderation.LockLabel(lt)))
		}
		return ctx.Reply(fmt.Sprintf("🔓 %s ya están permitidos en este chat.", moderation.LockLabel(lt)))
	}
}

func (h *handlers) createLocksCommand() *command.Command {
	return command.NewCommand("locks", "Muestra los bloqueos activos", Category, h.locksHandler)
}

func (h *handlers) locksHandler(ctx *command.Context) error {
	s, err := h.admin.Settings(ctx.Ctx, ctx.ChatID)
	if err != nil {
		return ctx.Reply(userError(err))
	}

	var b strings.Builder
	b.WriteString("🔐 Bloqueos del chat:\n")
	for _, lt := range models.LockPrecedence {
		mark := "🔓"
		if s.Locked(lt) {
			mark = "🔒"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, lt)
	}
	return ctx.Reply(b.String())
}
