package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

// Admin applies admin commands to chat settings and the warning ledger.
// Every input is validated before anything is written.
type Admin struct {
	svc *Service
}

// Admin returns the command-side adapter of the service
func (s *Service) Admin() *Admin {
	return &Admin{svc: s}
}

// update loads, mutates and stores a chat's settings
func (a *Admin) update(ctx context.Context, chatID int64, mutate func(*models.ChatSettings) error) (models.ChatSettings, error) {
	settings, err := a.svc.store.GetSettings(ctx, chatID)
	if err != nil {
		return models.ChatSettings{}, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	settings.Normalize()
	settings.ChatID = chatID

	if err := mutate(&settings); err != nil {
		return models.ChatSettings{}, err
	}
	if err := a.svc.store.UpdateSettings(ctx, chatID, settings); err != nil {
		return models.ChatSettings{}, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	return settings, nil
}

// Settings returns a chat's current settings
func (a *Admin) Settings(ctx context.Context, chatID int64) (models.ChatSettings, error) {
	settings, err := a.svc.store.GetSettings(ctx, chatID)
	if err != nil {
		return models.ChatSettings{}, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	settings.Normalize()
	return settings, nil
}

// OnLock enables or disables a lock type
func (a *Admin) OnLock(ctx context.Context, chatID int64, lockType string, enable bool) (models.LockType, error) {
	lt, err := models.ParseLockType(lockType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	_, err = a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.Locks[lt] = enable
		return nil
	})
	return lt, err
}

// OnAntiflood toggles flood detection; limit and window are optional
func (a *Admin) OnAntiflood(ctx context.Context, chatID int64, enabled bool, limit, window *int) (models.ChatSettings, error) {
	if limit != nil && *limit < 1 {
		return models.ChatSettings{}, invalidf("el límite debe ser al menos 1")
	}
	if window != nil && (*window < 1 || *window > models.MaxAntifloodWindow) {
		return models.ChatSettings{}, invalidf("la ventana debe estar entre 1 y %d segundos", models.MaxAntifloodWindow)
	}
	return a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.AntifloodEnabled = enabled
		if limit != nil {
			s.AntifloodLimit = *limit
		}
		if window != nil {
			s.AntifloodWindowSeconds = *window
		}
		return nil
	})
}

// OnWarn records a manual warning and applies the chat's action at the limit.
// The returned error is non-nil when the escalation action failed; the
// warning result is still valid then.
func (a *Admin) OnWarn(ctx context.Context, chatID, userID, by int64, reason string) (WarnResult, error) {
	settings := a.svc.settings(ctx, chatID)
	if reason == "" {
		reason = "Sin motivo"
	}

	res, err := a.svc.ledger.AddWarning(ctx, chatID, userID, by, reason, settings.MaxWarnings, settings.WarnAction)
	if err != nil && !res.Escalated {
		return res, err
	}
	warningsCount.WithLabelValues("manual").Inc()
	a.svc.audit.Publish(ctx, AuditEvent{
		ID: uuid.NewString(), Kind: AuditManualWarn, ChatID: chatID, UserID: userID,
		Action: ActionDeleteWarn, Detail: reason, Time: time.Now(),
	})

	if !res.Escalated {
		return res, nil
	}

	action := ActionFor(res.Action)
	escalationsCount.WithLabelValues(string(action)).Inc()
	a.svc.audit.Publish(ctx, AuditEvent{
		ID: uuid.NewString(), Kind: AuditEscalation, ChatID: chatID, UserID: userID,
		Action: action, Detail: reason, Time: time.Now(),
	})
	if err := a.svc.exec.Apply(ctx, action, chatID, userID, ApplyOptions{}); err != nil {
		logger.Warn(fmt.Sprintf("Escalada fallida para %d en %d: %v", userID, chatID, err), "Admin")
		return res, err
	}
	return res, nil
}

// OnResetWarn clears a user's warnings
func (a *Admin) OnResetWarn(ctx context.Context, chatID, userID int64) error {
	return a.svc.ledger.Reset(ctx, chatID, userID)
}

// OnRemoveWarn removes one warning by id, or the latest when id is empty
func (a *Admin) OnRemoveWarn(ctx context.Context, chatID, userID int64, id string) (bool, int, error) {
	return a.svc.ledger.Remove(ctx, chatID, userID, id)
}

// OnPunish applies a manual mute, kick or ban. A zero duration mutes
// indefinitely.
func (a *Admin) OnPunish(ctx context.Context, chatID, userID, by int64, action Action, d time.Duration, reason string) error {
	if !action.Punitive() {
		return invalidf("acción no válida: %s", action)
	}
	if d < 0 {
		return invalidf("la duración no puede ser negativa")
	}
	if err := a.svc.exec.Apply(ctx, action, chatID, userID, ApplyOptions{Duration: d}); err != nil {
		return err
	}
	a.svc.audit.Publish(ctx, AuditEvent{
		ID: uuid.NewString(), Kind: AuditManualAction, ChatID: chatID, UserID: userID,
		Action: action, Detail: fmt.Sprintf("%s (por %d)", reason, by), Time: time.Now(),
	})
	return nil
}

// Warnings returns a user's warning record
func (a *Admin) Warnings(ctx context.Context, chatID, userID int64) (*models.WarnsDocument, error) {
	return a.svc.ledger.Get(ctx, chatID, userID)
}

// OnSetWarnLimit sets the number of warnings that triggers the action
func (a *Admin) OnSetWarnLimit(ctx context.Context, chatID int64, limit int) error {
	if limit < models.MinMaxWarnings || limit > models.MaxMaxWarnings {
		return invalidf("el límite debe estar entre %d y %d", models.MinMaxWarnings, models.MaxMaxWarnings)
	}
	_, err := a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.MaxWarnings = limit
		return nil
	})
	return err
}

// OnSetWarnAction sets the escalation action
func (a *Admin) OnSetWarnAction(ctx context.Context, chatID int64, raw string) (models.WarnAction, error) {
	action, err := models.ParseWarnAction(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	_, err = a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.WarnAction = action
		return nil
	})
	return action, err
}

// OnAddAllowedDomain adds a domain to the link allowlist.
// It returns the normalized domain and whether it was new.
func (a *Admin) OnAddAllowedDomain(ctx context.Context, chatID int64, raw string) (string, bool, error) {
	if _, err := NormalizeDomain(raw); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	var domain string
	var added bool
	_, err := a.update(ctx, chatID, func(s *models.ChatSettings) error {
		var err error
		s.AllowedDomains, domain, added, err = AddDomain(s.AllowedDomains, raw)
		return err
	})
	return domain, added, err
}

// OnRemoveAllowedDomain removes a domain from the link allowlist
func (a *Admin) OnRemoveAllowedDomain(ctx context.Context, chatID int64, raw string) (string, bool, error) {
	if _, err := NormalizeDomain(raw); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	var domain string
	var removed bool
	_, err := a.update(ctx, chatID, func(s *models.ChatSettings) error {
		var err error
		s.AllowedDomains, domain, removed, err = RemoveDomain(s.AllowedDomains, raw)
		return err
	})
	return domain, removed, err
}

// OnForceSubToggle turns the subscription gate on or off. Enabling it
// requires a channel, either the chat's own or the bot-wide default.
func (a *Admin) OnForceSubToggle(ctx context.Context, chatID int64, enabled bool) (models.ChatSettings, error) {
	return a.update(ctx, chatID, func(s *models.ChatSettings) error {
		if enabled && a.svc.gate.Channel(*s) == "" {
			return invalidf("primero configura un canal con /setchannel")
		}
		s.ForceSubEnabled = enabled
		return nil
	})
}

// OnSetForceSubChannel sets the channel users must join
func (a *Admin) OnSetForceSubChannel(ctx context.Context, chatID int64, ref string) (string, error) {
	channel, err := NormalizeChannelRef(ref)
	if err != nil {
		return "", err
	}
	_, err = a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.ForceSubChannel = channel
		return nil
	})
	return channel, err
}

// OnAutoDeleteJoins toggles deletion of join notifications
func (a *Admin) OnAutoDeleteJoins(ctx context.Context, chatID int64, enabled bool) error {
	_, err := a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.AutoDeleteJoins = enabled
		return nil
	})
	return err
}

// OnAutoDeletePins toggles deletion of pin notifications. delay, when set,
// is how long the pinned message itself survives (0 keeps it). Disabling
// the feature cancels the chat's pending pin deletions.
func (a *Admin) OnAutoDeletePins(ctx context.Context, chatID int64, enabled bool, delay *int) (models.ChatSettings, error) {
	if delay != nil && (*delay < 0 || *delay > models.MaxPinDeleteDelay) {
		return models.ChatSettings{}, invalidf("el retraso debe estar entre 0 y %d segundos", models.MaxPinDeleteDelay)
	}
	settings, err := a.update(ctx, chatID, func(s *models.ChatSettings) error {
		s.AutoDeletePins = enabled
		if delay != nil {
			s.PinDeleteDelaySeconds = *delay
		}
		return nil
	})
	if err != nil {
		return settings, err
	}
	if !enabled {
		if n := a.svc.sched.CancelPrefix(PinJobPrefix(chatID)); n > 0 {
			logger.Info(fmt.Sprintf("Canceladas %d eliminaciones de fijados en %d", n, chatID), "Admin")
		}
	}
	return settings, nil
}
