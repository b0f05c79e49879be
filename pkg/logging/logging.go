// Package logging installs the process-wide slog logger.
//
// Usage:
//
//	logging.Setup(cfg.LogLevel)
//
// Levels: debug, info, warn, error (anything else means info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a colored stderr logger at the named level.
func Setup(level string) {
	slog.SetDefault(New(os.Stderr, ParseLevel(level)))
}

// New returns a tint logger writing to w. Color is disabled unless w is a terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
		NoColor:    !isTerminal(w),
	}))
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
