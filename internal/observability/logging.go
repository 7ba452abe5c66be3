package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/quakewatch/tsunami-monitor/internal/config"
)

// NewLogger builds the service logger from LOG_LEVEL / LOG_FORMAT config.
// Format "json" is the production default; anything else gets a text
// handler for local readability.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a level string to slog.Level; unknown strings default
// to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
