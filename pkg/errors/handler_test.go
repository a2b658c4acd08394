package errors

import (
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []logger.Entry
}

func (r *recordingSink) Send(e logger.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func TestIncrementError(t *testing.T) {
	h := newHandler(nil, nil, 15, time.Hour, time.Hour)

	h.IncrementError()
	h.IncrementError()

	if got := h.Count(); got != 2 {
		t.Errorf("Count() = %v, want %v", got, 2)
	}
}

func TestReport(t *testing.T) {
	sink := &recordingSink{}
	h := newHandler(sink, nil, 15, time.Hour, time.Hour)

	h.Report(ReportErrorOptions{Error: "Test", Message: "algo falló"})

	if len(sink.entries) != 1 {
		t.Fatalf("len(entries) = %v, want 1", len(sink.entries))
	}
	if sink.entries[0].Message != "algo falló" || sink.entries[0].Prefix != "Error Test" {
		t.Errorf("entry = %+v", sink.entries[0])
	}
}

func TestShutdownOnTooManyErrors(t *testing.T) {
	var shutdown, exited bool
	var code int
	h := newHandler(nil, func() { shutdown = true }, 1, time.Hour, time.Hour)
	h.exitFunc = func(c int) { exited = true; code = c }

	h.IncrementError()
	if h.tooManyErrors() {
		t.Fatal("one error should not exceed a limit of one")
	}
	h.IncrementError()
	if !h.tooManyErrors() {
		t.Fatal("two errors should exceed a limit of one")
	}

	h.shutdown()
	if !shutdown || !exited || code != 1 {
		t.Errorf("shutdown = %v, exited = %v, code = %v", shutdown, exited, code)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	handler = newHandler(nil, nil, 15, time.Hour, time.Hour)
	defer func() { handler = nil }()

	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()

	if got := handler.Count(); got != 1 {
		t.Errorf("Count() after panic = %v, want 1", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := newHandler(nil, nil, 15, time.Millisecond, time.Millisecond)
	h.start()
	h.Stop()
	h.Stop()
}
