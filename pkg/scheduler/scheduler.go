// Package scheduler runs keyed one-shot jobs after a delay.
// Jobs remove themselves once they fire and can be cancelled individually
// or by key prefix.
package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

type job struct {
	timer *time.Timer
	seq   uint64
}

// Scheduler holds pending jobs
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]job
	seq     uint64
	stopped bool
	wg      sync.WaitGroup
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]job)}
}

// Key joins parts into a job key, e.g. Key("pin", chatID, msgID) = "pin:-100:7"
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// Schedule runs fn once after delay. Scheduling an existing key replaces
// the pending job. It returns false when the scheduler is stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if old, ok := s.jobs[key]; ok {
		if old.timer.Stop() {
			s.wg.Done()
		}
	}

	s.seq++
	seq := s.seq
	s.wg.Add(1)
	t := time.AfterFunc(delay, func() {
		defer s.wg.Done()
		defer errors.RecoverMiddleware()()

		s.mu.Lock()
		if cur, ok := s.jobs[key]; ok && cur.seq == seq {
			delete(s.jobs, key)
		}
		s.mu.Unlock()

		fn()
	})
	s.jobs[key] = job{timer: t, seq: seq}
	return true
}

// Cancel stops a pending job. It reports whether the job was still pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[key]
	if !ok {
		return false
	}
	delete(s.jobs, key)
	if j.timer.Stop() {
		s.wg.Done()
		return true
	}
	return false
}

// CancelPrefix stops every pending job whose key starts with prefix and
// returns how many were cancelled.
func (s *Scheduler) CancelPrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, j := range s.jobs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		delete(s.jobs, key)
		if j.timer.Stop() {
			s.wg.Done()
			n++
		}
	}
	if n > 0 {
		logger.Debug(fmt.Sprintf("Cancelados %d trabajos con prefijo %s", n, prefix), "Scheduler")
	}
	return n
}

// Pending returns the number of jobs waiting to fire
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop cancels every pending job and waits for running ones to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for key, j := range s.jobs {
		delete(s.jobs, key)
		if j.timer.Stop() {
			s.wg.Done()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}
