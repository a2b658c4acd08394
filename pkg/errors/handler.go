// Package errors provides error handling and recovery mechanisms for the guard.
// It implements an error counter with automatic shutdown on excessive errors.
package errors

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// ErrorHandler manages error counting and reporting
type ErrorHandler struct {
	errorCount    int32
	reporter      logger.Sink
	stopOnce      sync.Once
	stopChan      chan struct{}
	shutdownFunc  func()
	exitFunc      func(code int)
	maxErrors     int32
	resetInterval time.Duration
	checkInterval time.Duration
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(webhookURL string, shutdownFunc func()) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(webhookURL, shutdownFunc)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(webhookURL string, shutdownFunc func()) *ErrorHandler {
	var reporter logger.Sink
	if webhookURL != "" {
		reporter = logger.NewWebhookSink(webhookURL)
	}
	h := newHandler(reporter, shutdownFunc, 15, 5*time.Second, time.Second)
	h.start()
	return h
}

func newHandler(reporter logger.Sink, shutdownFunc func(), maxErrors int32, reset, check time.Duration) *ErrorHandler {
	return &ErrorHandler{
		reporter:      reporter,
		stopChan:      make(chan struct{}),
		shutdownFunc:  shutdownFunc,
		exitFunc:      os.Exit,
		maxErrors:     maxErrors,
		resetInterval: reset,
		checkInterval: check,
	}
}

// start begins the error monitoring goroutines
func (h *ErrorHandler) start() {
	go func() {
		ticker := time.NewTicker(h.resetInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				atomic.StoreInt32(&h.errorCount, 0)
			case <-h.stopChan:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(h.checkInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if h.tooManyErrors() {
					h.shutdown()
					return
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

func (h *ErrorHandler) tooManyErrors() bool {
	return atomic.LoadInt32(&h.errorCount) > h.maxErrors
}

func (h *ErrorHandler) shutdown() {
	start := time.Now()
	logger.Warn("Se detectó un número demasiado alto de errores", "CRITICAL")
	logger.Warn("Apagando...", "CRITICAL")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Número inusual de errores. Apagando...",
	})

	if h.shutdownFunc != nil {
		h.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Finalizando proceso... Tiempo total: %v", time.Since(start)), "CRITICAL")
	h.exitFunc(1)
}

// Stop stops the error monitoring goroutines
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Count returns the errors seen in the current window
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	logger.Error(fmt.Sprintf("Error count: %d", count), "AntiCrash")
}

// HandlePanic handles a recovered panic
func (h *ErrorHandler) HandlePanic(recovered interface{}) {
	h.IncrementError()
	logger.Debug("Unhandled Panic/Catch", "AntiCrash")
	logger.Error(fmt.Sprintf("%v", recovered), "SYS")
}

// Report sends an error report to the configured webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.reporter == nil {
		return
	}
	h.reporter.Send(logger.Entry{
		Level:   logger.LevelCritical,
		Message: data.Message,
		Prefix:  fmt.Sprintf("Error %s", data.Error),
		Time:    time.Now(),
	})
	logger.Warn("ErrorReport enviado al webhook", "AntiCrash")
}

// Recovered feeds a panic value caught elsewhere into the global handler
func Recovered(r interface{}) {
	if handler != nil {
		handler.HandlePanic(r)
		return
	}
	logger.Error(fmt.Sprintf("Panic recovered (no handler): %v", r), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			Recovered(r)
		}
	}
}
