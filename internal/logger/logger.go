package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

const defaultConsoleSize = 500

var (
	globalLogger  *Logger
	globalConsole *Console
	once          sync.Once
)

// Get returns the process logger. The first call initializes it; later calls
// ignore the level and return the existing instance.
func Get(level string) *Logger {
	return Configure(level, defaultConsoleSize)
}

// Configure is Get with an explicit console capacity. Only the first call
// across Get and Configure has any effect.
func Configure(level string, consoleSize int) *Logger {
	once.Do(func() {
		if consoleSize <= 0 {
			consoleSize = defaultConsoleSize
		}
		globalConsole = NewConsole(consoleSize)
		globalLogger = newZapLogger(level, globalConsole)
	})
	return globalLogger
}

// GetConsole returns the ring buffer the process logger tees into, or nil
// before the logger is initialized.
func GetConsole() *Console {
	return globalConsole
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
