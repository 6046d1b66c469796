package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/attrgrid/internal/config"
	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/metrics"
	"github.com/vk/attrgrid/internal/registry"
	"github.com/vk/attrgrid/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry
	metrics  *metrics.Registry
	store    *store.Synchronized
}

// New is the constructor for the main application. Logs go to logW. It
// registers the step modules (the built-in ones when none are given), loads
// the sheets and applies the initial values.
func New(logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All step modules registered.", "modules", len(modules), "functions", len(reg.Functions()))

	a := &App{
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		metrics:  metrics.NewRegistry(),
	}

	s, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store.NewSynchronized(s)
	return a, nil
}

// Store returns the application's store. This is primarily for testing.
func (a *App) Store() *store.Synchronized {
	return a.store
}

// Registry returns the application's step registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the prometheus registry the store reports to.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// Reload rebuilds the store from the sheets and values and swaps it in. On
// failure the current store stays in place.
func (a *App) Reload(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	s, err := a.buildStore(ctx)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}
	a.store.Replace(s)
	a.logger.Info("Sheets reloaded.", "attributes", len(s.Names()))
	return nil
}
