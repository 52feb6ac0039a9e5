// Package logger builds the process wide slog logger. Level and format come
// from LOG_LEVEL and LOG_FORMAT so both binaries share one knob.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a logger tagged with the service name. LOG_FORMAT=json
// switches to JSON output, anything else means human readable text.
func New(service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler).With(slog.String("service", service))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
