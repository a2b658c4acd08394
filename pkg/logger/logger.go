// Package logger provides the guard's logging system with multiple outputs.
// It supports console logging with colors, file logging through logrus and
// pluggable remote sinks (Discord webhooks, a Telegram log channel).
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m"
	case LevelWarn:
		return "\033[33m"
	case LevelSuccess:
		return "\033[32m"
	case LevelInfo:
		return "\033[36m"
	case LevelDebug:
		return "\033[35m"
	case LevelSystem:
		return "\033[34m"
	default:
		return "\033[0m"
	}
}

// Emoji returns the marker used by chat sinks for the level
func (l LogLevel) Emoji() string {
	switch l {
	case LevelCritical:
		return "🚨"
	case LevelError:
		return "❌"
	case LevelWarn:
		return "⚠️"
	case LevelSuccess:
		return "✅"
	default:
		return "ℹ️"
	}
}

// logrusLevel maps our levels onto logrus so the file formatter can tag entries
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical:
		return logrus.FatalLevel
	case LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	case LevelSystem:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

const colorReset = "\033[0m"

// Entry is what remote sinks receive
type Entry struct {
	Level   LogLevel
	Message string
	Prefix  string
	Time    time.Time
}

// Sink forwards log entries to a remote destination.
// Send is called on its own goroutine and must not block forever.
type Sink interface {
	Send(e Entry)
}

type sinkBinding struct {
	sink     Sink
	minLevel LogLevel
}

// Logger is the main logging structure
type Logger struct {
	console   bool
	combined  *logrus.Logger
	errors    *logrus.Logger
	logFile   *os.File
	errorFile *os.File
	sinks     []sinkBinding
	mu        sync.Mutex
}

var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance. Webhook URLs are optional;
// when set, errors go to errorWebhook and everything else to logsWebhook.
func Init(errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger instance
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("", "")
	})
	return logger
}

// NewLogger creates a new Logger writing to ./logs
func NewLogger(errorWebhook, logsWebhook string) *Logger {
	return newLoggerIn(filepath.Join(".", "logs"), errorWebhook, logsWebhook)
}

func newLoggerIn(logsDir, errorWebhook, logsWebhook string) *Logger {
	l := &Logger{console: true}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Printf("Error creando el directorio de logs: %v\n", err)
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(logsDir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error abriendo combined.log: %v\n", err)
	}
	l.errorFile, err = os.OpenFile(filepath.Join(logsDir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("Error abriendo error.log: %v\n", err)
	}

	l.combined = newFileLogrus(l.logFile)
	l.errors = newFileLogrus(l.errorFile)

	if errorWebhook != "" {
		l.AddSink(NewWebhookSink(errorWebhook), LevelError)
	}
	if logsWebhook != "" {
		l.AddSink(levelBand{NewWebhookSink(logsWebhook), LevelWarn}, LevelSystem)
	}
	return l
}

func newFileLogrus(f *os.File) *logrus.Logger {
	lr := logrus.New()
	lr.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	lr.SetLevel(logrus.TraceLevel)
	lr.ExitFunc = func(int) {}
	if f != nil {
		lr.SetOutput(f)
	} else {
		lr.SetOutput(discard{})
	}
	return lr
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// levelBand drops entries more severe than floor, so the logs webhook does
// not duplicate what the error webhook already received.
type levelBand struct {
	Sink
	floor LogLevel
}

func (b levelBand) Send(e Entry) {
	if e.Level < b.floor {
		return
	}
	b.Sink.Send(e)
}

// AddSink registers a remote sink receiving every entry at minLevel or more severe
func (l *Logger) AddSink(s Sink, minLevel LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sinkBinding{sink: s, minLevel: minLevel})
}

// SetConsole toggles colored stdout output
func (l *Logger) SetConsole(enabled bool) {
	l.mu.Lock()
	l.console = enabled
	l.mu.Unlock()
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if l.console {
		fmt.Printf("[%s] [%s%s%s] [%s]: %s\n",
			now.Format("2006-01-02 15:04:05"),
			level.Color(),
			level.String(),
			colorReset,
			prefix,
			message,
		)
	}

	entry := l.combined.WithField("prefix", prefix).WithField("level_name", level.String())
	entry.Log(level.logrusLevel(), message)
	if level <= LevelError {
		l.errors.WithField("prefix", prefix).Log(level.logrusLevel(), message)
	}

	e := Entry{Level: level, Message: message, Prefix: prefix, Time: now}
	for _, b := range l.sinks {
		if level <= b.minLevel {
			go b.sink.Send(e)
		}
	}
}

// Close closes the log files
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.errorFile != nil {
		l.errorFile.Close()
	}
}

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level helpers using the global logger

func Critical(message string, prefix string) { Get().Critical(message, prefix) }
func Error(message string, prefix string)    { Get().Error(message, prefix) }
func Warn(message string, prefix string)     { Get().Warn(message, prefix) }
func Success(message string, prefix string)  { Get().Success(message, prefix) }
func Info(message string, prefix string)     { Get().Info(message, prefix) }
func Debug(message string, prefix string)    { Get().Debug(message, prefix) }
func System(message string, prefix string)  { Get().System(message, prefix) }
