// Package logger provides test helpers for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestLogger creates a logger for tests.
// Output is discarded unless the TEST_DEBUG environment variable is set,
// in which case debug logs go to stdout.
func NewTestLogger() *slog.Logger {
	if os.Getenv("TEST_DEBUG") != "" {
		return NewLogger(Config{Level: slog.LevelDebug, Output: os.Stdout})
	}
	return NewLogger(Config{Level: slog.LevelWarn, Output: io.Discard})
}
