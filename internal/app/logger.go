package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's logger from cfg. It never touches
// slog.Default so several apps can run side by side in tests.
func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Debug output points at the line that produced it.
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("component", "attrgrid")
}
