// Package logging builds the slog loggers shared by the sjf commands.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger returns the logger used by the non-interactive commands (run,
// serve, init). It writes to stderr so stdout stays clean for chart and JSON
// output.
func NewLogger(level slog.Level, format string) *slog.Logger {
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter returns a logger writing to w. format is "json" or
// "text"; anything else falls back to text, matching logging.format in
// .sjf/config.yaml.
func NewLoggerWithWriter(level slog.Level, format string, w io.Writer) *slog.Logger {
	return slog.New(newHandler(w, level, format))
}

func newHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// OpenFile creates (or reuses) logs/sjf.log under dir and returns a logger
// appending to it. The terminal UI owns stderr, so interactive sessions log
// here instead.
func OpenFile(dir string, level slog.Level, format string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(dir, "sjf.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return NewLoggerWithWriter(level, format, f), f, nil
}

// ParseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
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
