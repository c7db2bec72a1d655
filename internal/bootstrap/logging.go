package bootstrap

import (
	"io"
	"log/slog"
	"strings"

	"github.com/boolean-maybe/fql/config"
)

// ParseLevel maps a configured level name to a slog level.
// Unknown names fall back to error.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// InitLogging installs a text handler writing to w as the default logger.
func InitLogging(cfg *config.Config, w io.Writer) slog.Level {
	level := ParseLevel(cfg.Logging.Level)
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return level
}
