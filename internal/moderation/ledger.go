package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

type ledgerKey struct {
	chatID int64
	userID int64
}

// ledgerLock is a per-key mutex; refs is only touched inside MapOf.Compute
type ledgerLock struct {
	mu   sync.Mutex
	refs int
}

// WarnResult is the outcome of one AddWarning call
type WarnResult struct {
	// Record is the ledger state right after the warning was appended
	Record models.WarnsDocument
	Count  int
	Max    int
	// Escalated is true when Count reached Max; the ledger has been reset
	Escalated bool
	Action    models.WarnAction
}

// WarningLedger accumulates warnings per (chat, user) and escalates at the
// chat's limit. All mutations of one key are serialized.
type WarningLedger struct {
	store WarnStore
	locks *xsync.MapOf[ledgerKey, *ledgerLock]
	now   func() time.Time
}

// NewWarningLedger creates a ledger over store
func NewWarningLedger(store WarnStore) *WarningLedger {
	return &WarningLedger{
		store: store,
		locks: xsync.NewMapOf[ledgerKey, *ledgerLock](),
		now:   time.Now,
	}
}

// lock takes the mutex of a key. The entry is dropped from the table when
// its last holder or waiter unlocks, so idle keys hold no memory.
func (l *WarningLedger) lock(chatID, userID int64) func() {
	k := ledgerKey{chatID, userID}
	e, _ := l.locks.Compute(k, func(e *ledgerLock, loaded bool) (*ledgerLock, bool) {
		if !loaded {
			e = &ledgerLock{}
		}
		e.refs++
		return e, false
	})
	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.locks.Compute(k, func(e *ledgerLock, loaded bool) (*ledgerLock, bool) {
			if !loaded {
				return e, true
			}
			e.refs--
			return e, e.refs <= 0
		})
	}
}

// AddWarning records a warning. When the count reaches max the result is
// marked escalated with action and the ledger is reset in the same step.
func (l *WarningLedger) AddWarning(ctx context.Context, chatID, userID, warnedBy int64, reason string, max int, action models.WarnAction) (WarnResult, error) {
	if max < models.MinMaxWarnings {
		max = models.MinMaxWarnings
	}

	unlock := l.lock(chatID, userID)
	defer unlock()

	doc, err := l.store.LoadWarnings(ctx, chatID, userID)
	if err != nil {
		return WarnResult{}, fmt.Errorf("cargando advertencias: %w", err)
	}
	if doc == nil {
		doc = &models.WarnsDocument{ChatID: chatID, UserID: userID}
	}

	doc.Count++
	doc.Warns = append(doc.Warns, models.Warn{
		ID:        uuid.NewString(),
		WarnedBy:  warnedBy,
		Reason:    reason,
		Timestamp: l.now(),
	})

	res := WarnResult{
		Record: *doc,
		Count:  doc.Count,
		Max:    max,
		Action: action,
	}

	if doc.Count >= max {
		res.Escalated = true
		if err := l.store.DeleteWarnings(ctx, chatID, userID); err != nil {
			return res, fmt.Errorf("reiniciando advertencias: %w", err)
		}
		return res, nil
	}

	if err := l.store.SaveWarnings(ctx, doc); err != nil {
		return res, fmt.Errorf("guardando advertencias: %w", err)
	}
	return res, nil
}

// Reset clears a user's warnings
func (l *WarningLedger) Reset(ctx context.Context, chatID, userID int64) error {
	unlock := l.lock(chatID, userID)
	defer unlock()

	if err := l.store.DeleteWarnings(ctx, chatID, userID); err != nil {
		return fmt.Errorf("reiniciando advertencias: %w", err)
	}
	return nil
}

// Get returns a user's current warnings; a user with none gets an empty record
func (l *WarningLedger) Get(ctx context.Context, chatID, userID int64) (*models.WarnsDocument, error) {
	unlock := l.lock(chatID, userID)
	defer unlock()

	doc, err := l.store.LoadWarnings(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("cargando advertencias: %w", err)
	}
	if doc == nil {
		doc = &models.WarnsDocument{ChatID: chatID, UserID: userID}
	}
	return doc, nil
}

// Remove deletes one warning by id, or the latest when id is empty. It
// reports whether a warning was removed and how many remain.
func (l *WarningLedger) Remove(ctx context.Context, chatID, userID int64, id string) (bool, int, error) {
	unlock := l.lock(chatID, userID)
	defer unlock()

	doc, err := l.store.LoadWarnings(ctx, chatID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("cargando advertencias: %w", err)
	}
	if doc == nil || len(doc.Warns) == 0 {
		return false, 0, nil
	}

	idx := len(doc.Warns) - 1
	if id != "" {
		idx = -1
		for i, w := range doc.Warns {
			if w.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return false, doc.Count, nil
		}
	}

	doc.Warns = append(doc.Warns[:idx], doc.Warns[idx+1:]...)
	doc.Count = len(doc.Warns)

	if doc.Count == 0 {
		err = l.store.DeleteWarnings(ctx, chatID, userID)
	} else {
		err = l.store.SaveWarnings(ctx, doc)
	}
	if err != nil {
		return false, 0, fmt.Errorf("guardando advertencias: %w", err)
	}
	return true, doc.Count, nil
}
