package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app-scoped slog.Logger writing to outW. The process
// default logger is left untouched so callers can run isolated instances.
// Unrecognized level or format strings fall back to info-level text output.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
