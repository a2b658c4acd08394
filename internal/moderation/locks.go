package moderation

import "github.com/PancyStudios/PancyGuard/pkg/models"

// lockMatches is the predicate of each lock type against a classified message
func lockMatches(lt models.LockType, msg Message) bool {
	switch lt {
	case models.LockMessages:
		return true
	case models.LockMedia:
		return msg.Shape.Has(ShapeMedia)
	case models.LockStickers:
		// the stickers lock also covers GIFs
		return msg.Shape.Has(ShapeSticker) || msg.Shape.Has(ShapeAnimation)
	case models.LockGifs:
		return msg.Shape.Has(ShapeAnimation)
	case models.LockPolls:
		return msg.Shape.Has(ShapePoll)
	case models.LockLinks:
		return len(msg.URLs) > 0
	case models.LockForwards:
		return msg.Shape.Has(ShapeForward)
	}
	return false
}

// CheckLock returns the first enabled lock, in precedence order, whose
// predicate matches the message.
func CheckLock(msg Message, locks map[models.LockType]bool) (models.LockType, bool) {
	return checkLockAfter(msg, locks, "")
}

// checkLockAfter is CheckLock restricted to locks that come after `after`
// in the precedence order. An empty `after` checks every lock.
func checkLockAfter(msg Message, locks map[models.LockType]bool, after models.LockType) (models.LockType, bool) {
	started := after == ""
	for _, lt := range models.LockPrecedence {
		if !started {
			started = lt == after
			continue
		}
		if locks[lt] && lockMatches(lt, msg) {
			return lt, true
		}
	}
	return "", false
}

var lockLabels = map[models.LockType]string{
	models.LockMessages: "Los mensajes",
	models.LockMedia:    "Los archivos multimedia",
	models.LockStickers: "Los stickers",
	models.LockGifs:     "Los GIFs",
	models.LockPolls:    "Las encuestas",
	models.LockLinks:    "Los enlaces",
	models.LockForwards: "Los reenvíos",
}

// LockLabel is the user facing plural name of a lock type
func LockLabel(lt models.LockType) string {
	if l, ok := lockLabels[lt]; ok {
		return l
	}
	return string(lt)
}
