package logger

import (
	"strings"
	"sync"
)

// Log levels accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call fixes the level;
// later calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds a standalone logger writing to stdout at the given level.
func New(level string) *Logger {
	return newZapLogger(normalizeLevel(level))
}

// ValidLevel reports whether s names one of the supported levels.
func ValidLevel(s string) bool {
	switch normalizeLevel(s) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
