package moderation

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigUnavailable means chat settings could not be read; moderation continues with defaults.
	ErrConfigUnavailable = errors.New("configuración no disponible")
	// ErrPermissionDenied means the bot lacks the rights to act in the chat.
	ErrPermissionDenied = errors.New("permisos insuficientes")
	// ErrExternalTransient covers network and rate-limit failures of the chat platform.
	ErrExternalTransient = errors.New("error transitorio de la plataforma")
	// ErrInvalidConfiguration is returned by admin commands before anything is written.
	ErrInvalidConfiguration = errors.New("configuración inválida")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// classify makes sure a platform error carries one of the sentinels above
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrExternalTransient) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrExternalTransient, err)
}
