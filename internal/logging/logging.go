// Package logging configures the process-wide slog logger and provides
// subsystem-tagged helpers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var defaultLogger = slog.Default()

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Unknown values fall back to info.
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

// Init installs a text or JSON handler writing to w. It should be called
// once at startup.
func Init(level slog.Level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	defaultLogger = slog.New(h)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

func Logger() *slog.Logger { return defaultLogger }

func logInternal(level slog.Level, subsystem string, err error, msg string, args ...any) {
	if !defaultLogger.Enabled(context.Background(), level) {
		return
	}
	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	defaultLogger.LogAttrs(context.Background(), level, msg, attrs...)
}

func Debug(subsystem, msg string, args ...any) {
	logInternal(slog.LevelDebug, subsystem, nil, msg, args...)
}

func Info(subsystem, msg string, args ...any) {
	logInternal(slog.LevelInfo, subsystem, nil, msg, args...)
}

func Warn(subsystem, msg string, args ...any) {
	logInternal(slog.LevelWarn, subsystem, nil, msg, args...)
}

func Error(subsystem string, err error, msg string, args ...any) {
	logInternal(slog.LevelError, subsystem, err, msg, args...)
}
