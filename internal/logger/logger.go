package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// New constructs a text logger with the desired log level.
func New(service string) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", service)
}

// WithRun tags the logger with a fresh run identifier so lines from
// consecutive scheduled invocations can be told apart.
func WithRun(log *slog.Logger) *slog.Logger {
	return log.With("run_id", uuid.NewString())
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
