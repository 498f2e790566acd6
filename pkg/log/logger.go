package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// SetupLogger installs a zerolog-backed global logger writing to stderr.
// format is "json" (default) or "console".
func SetupLogger(level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stderr
	switch strings.ToLower(format) {
	case "", "json":
	case "console":
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	default:
		return errors.NewValidationError("log_format", "must be json or console", format)
	}
	SetGlobalLogger(NewZerologLogger(w, lvl))
	return nil
}

// ParseLevel converts a textual level ("debug", "info", "warn", "error").
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "info", "":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log_level", "unknown level", level)
	}
}

// SetGlobalLogger replaces the logger returned by GetLogger.
func SetGlobalLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// GetLogger returns the global logger.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// GetLoggerWithName returns the global logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}
