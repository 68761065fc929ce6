package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. Text output is the default;
// LOG_FORMAT=json switches to JSON for log shippers.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
