// Package app holds process-level wiring shared by commands.
package app

import (
	"io"
	"log/slog"
	"strings"

	"wordref/internal/config"
)

// NewLogger builds the process logger from cfg, writes it to w and installs it
// as the slog default. Every record carries app=wordref.
//
//   - format "json" gives one JSON object per record
//   - any other format gives logfmt-style text without the timestamp
//   - level debug also records the source position
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		opts.ReplaceAttr = dropTime
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h).With(slog.String("app", "wordref"))
	slog.SetDefault(logger)
	return logger
}

// dropTime removes the top-level time attribute.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// parseLevel maps a config level name to slog. Unknown names mean info.
func parseLevel(s string) slog.Level {
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
