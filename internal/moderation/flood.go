package moderation

import (
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultFloodCapacity = 50_000
	defaultFloodIdleTTL  = time.Hour

	// FloodMuteDuration is how long a flood mute lasts
	FloodMuteDuration = 5 * time.Minute
)

type floodKey struct {
	chatID int64
	userID int64
}

type floodWindow struct {
	mu     sync.Mutex
	stamps []time.Time // ascending
}

// FloodDetector tracks recent message times per (chat, user).
// Windows are created on first use and evicted once idle or when the
// store is full.
type FloodDetector struct {
	mu      sync.Mutex
	windows *expirable.LRU[floodKey, *floodWindow]
}

// NewFloodDetector creates a detector holding at most capacity windows,
// each dropped after idle time without messages.
func NewFloodDetector(capacity int, idle time.Duration) *FloodDetector {
	if capacity <= 0 {
		capacity = defaultFloodCapacity
	}
	if idle <= 0 {
		idle = defaultFloodIdleTTL
	}
	return &FloodDetector{
		windows: expirable.NewLRU[floodKey, *floodWindow](capacity, nil, idle),
	}
}

func (f *FloodDetector) window(k floodKey) *floodWindow {
	f.mu.Lock()
	defer f.mu.Unlock()

	w, ok := f.windows.Get(k)
	if !ok {
		w = &floodWindow{}
	}
	// re-adding refreshes the idle TTL
	f.windows.Add(k, w)
	return w
}

// RecordAndCheck inserts now into the user's window, prunes entries older
// than window before the newest one and reports whether more than limit
// remain. Messages may arrive out of order, so a late stamp never drops
// newer ones. An exceeded window is cleared so one burst yields one
// detection.
func (f *FloodDetector) RecordAndCheck(chatID, userID int64, now time.Time, window time.Duration, limit int) bool {
	w := f.window(floodKey{chatID, userID})

	w.mu.Lock()
	defer w.mu.Unlock()

	i := sort.Search(len(w.stamps), func(i int) bool { return w.stamps[i].After(now) })
	w.stamps = append(w.stamps, time.Time{})
	copy(w.stamps[i+1:], w.stamps[i:])
	w.stamps[i] = now

	cutoff := w.stamps[len(w.stamps)-1].Add(-window)
	first := sort.Search(len(w.stamps), func(i int) bool { return !w.stamps[i].Before(cutoff) })
	w.stamps = append(w.stamps[:0], w.stamps[first:]...)

	if len(w.stamps) > limit {
		w.stamps = nil
		return true
	}
	return false
}

// Count returns the timestamps currently held for a user
func (f *FloodDetector) Count(chatID, userID int64) int {
	w, ok := f.windows.Peek(floodKey{chatID, userID})
	if !ok {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stamps)
}

// Clear empties a user's window
func (f *FloodDetector) Clear(chatID, userID int64) {
	if w, ok := f.windows.Peek(floodKey{chatID, userID}); ok {
		w.mu.Lock()
		w.stamps = nil
		w.mu.Unlock()
	}
}

// Len returns the number of tracked windows
func (f *FloodDetector) Len() int {
	return f.windows.Len()
}
