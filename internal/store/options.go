package store

import (
	"io"
	"log/slog"
)

// DefaultReserved lists the names Describe refuses by default.
var DefaultReserved = []string{"", "describe", "remove", "set", "get", "tree"}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver installs an observer notified of store activity.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithReserved adds names to the reserved set.
func WithReserved(names ...string) Option {
	return func(s *Store) {
		for _, n := range names {
			s.reserved[n] = struct{}{}
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
