package mod

import (
	"errors"
	"strings"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
)

var userOption = command.Option{Name: "usuario", Description: "Usuario (responde a su mensaje o indica su ID)", Type: command.OptionUser, Required: true}

var toggleOption = command.Option{Name: "estado", Description: "Activar o desactivar", Required: true, Choices: []string{"on", "off"}}

// parseToggle accepts on/off in the usual spellings
func parseToggle(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "si", "sí", "true", "1", "yes", "enable":
		return true, true
	case "off", "no", "false", "0", "disable":
		return false, true
	}
	return false, false
}

// userError turns an admin error into the reply shown in the chat
func userError(err error) string {
	switch {
	case errors.Is(err, moderation.ErrInvalidConfiguration):
		msg := strings.TrimPrefix(err.Error(), moderation.ErrInvalidConfiguration.Error()+": ")
		return "❌ " + msg
	case errors.Is(err, moderation.ErrConfigUnavailable):
		return "❌ No se pudo acceder a la configuración. Inténtalo de nuevo más tarde."
	case errors.Is(err, moderation.ErrPermissionDenied):
		return "❌ No tengo permisos suficientes para hacer eso."
	default:
		return "❌ Ocurrió un error inesperado. Inténtalo de nuevo más tarde."
	}
}

func usage(ctx *command.Context) error {
	return ctx.Reply("ℹ️ Uso: " + ctx.Command.Usage())
}

func targetName(u *command.User) string {
	if u.Name != "" {
		return u.Name
	}
	return "el usuario"
}

func onOff(b bool) string {
	if b {
		return "✅ activado"
	}
	return "❌ desactivado"
}
