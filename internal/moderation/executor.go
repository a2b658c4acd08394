package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// ApplyOptions tunes a punitive action
type ApplyOptions struct {
	// Flood marks a flood mute: timed, and it also clears the flood window
	Flood bool
	// Duration overrides the mute length; zero means indefinitely
	Duration time.Duration
}

// Executor applies mute, kick and ban
type Executor struct {
	messenger Messenger
	ledger    *WarningLedger
	flood     *FloodDetector
	now       func() time.Time
}

// NewExecutor creates an executor
func NewExecutor(messenger Messenger, ledger *WarningLedger, flood *FloodDetector) *Executor {
	return &Executor{messenger: messenger, ledger: ledger, flood: flood, now: time.Now}
}

// Apply performs action against the user. The user's warnings are reset
// whether or not the platform call succeeds, so a failed ban is not retried
// on every following message.
func (e *Executor) Apply(ctx context.Context, action Action, chatID, userID int64, opts ApplyOptions) error {
	err := e.apply(ctx, action, chatID, userID, opts)

	if e.ledger != nil {
		if rerr := e.ledger.Reset(ctx, chatID, userID); rerr != nil {
			logger.Error(fmt.Sprintf("No se pudieron reiniciar las advertencias de %d en %d: %v", userID, chatID, rerr), "Executor")
		}
	}
	if opts.Flood && e.flood != nil {
		e.flood.Clear(chatID, userID)
	}

	if err != nil {
		err = classify(err)
		kind := "transient"
		if errors.Is(err, ErrPermissionDenied) {
			kind = "permission"
		}
		actionErrorsCount.WithLabelValues(string(action), kind).Inc()
		return fmt.Errorf("%s de %d en %d: %w", action, userID, chatID, err)
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, action Action, chatID, userID int64, opts ApplyOptions) error {
	switch action {
	case ActionMute:
		var until time.Time
		d := opts.Duration
		if opts.Flood && d == 0 {
			d = FloodMuteDuration
		}
		if d > 0 {
			until = e.now().Add(d)
		}
		return e.messenger.RestrictUser(ctx, chatID, userID, until)
	case ActionKick:
		if err := e.messenger.BanUser(ctx, chatID, userID); err != nil {
			return err
		}
		return e.messenger.UnbanUser(ctx, chatID, userID)
	case ActionBan:
		return e.messenger.BanUser(ctx, chatID, userID)
	}
	return fmt.Errorf("acción no punitiva: %s", action)
}
