package lottery

import (
	"log"
	"strings"
)

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// DefaultLogger implements Logger using standard log package.
// The zero value logs everything; set Level to "info", "warn" or "error" to filter.
type DefaultLogger struct {
	Level string
}

// NewDefaultLogger creates a logger that drops messages below level
func NewDefaultLogger(level string) *DefaultLogger {
	return &DefaultLogger{Level: strings.ToLower(level)}
}

func (l *DefaultLogger) enabled(level string) bool {
	return levelRank(level) >= levelRank(l.Level)
}

func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	if l.enabled("info") {
		log.Printf("[INFO] "+msg, args...)
	}
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...any) {
	if l.enabled("warn") {
		log.Printf("[WARN] "+msg, args...)
	}
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	if l.enabled("error") {
		log.Printf("[ERROR] "+msg, args...)
	}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	if l.enabled("debug") {
		log.Printf("[DEBUG] "+msg, args...)
	}
}

// SilentLogger implements Logger interface but does not output any logs
// This is useful for testing environments where log output is not desired
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing (silent)
func (l *SilentLogger) Info(msg string, args ...any) {}

// Warn does nothing (silent)
func (l *SilentLogger) Warn(msg string, args ...any) {}

// Error does nothing (silent)
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing (silent)
func (l *SilentLogger) Debug(msg string, args ...any) {}
