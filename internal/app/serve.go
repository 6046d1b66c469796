package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/attrgrid/internal/ctxlog"
	"github.com/vk/attrgrid/internal/feed"
	"github.com/vk/attrgrid/internal/server"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP surface on the configured address until ctx is
// cancelled.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.config.Listen, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener runs the HTTP surface on ln until ctx is cancelled. With
// watching enabled, sheet changes rebuild the store in the background.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	srv := server.New(a.store,
		server.WithLogger(a.logger),
		server.WithMetrics(a.metrics.Handler()),
	)
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.config.Watch {
		w, err := newSheetWatcher(a.config.SheetPaths, a.config.ValuesFile, a.config.Debounce)
		if err != nil {
			ln.Close()
			return fmt.Errorf("failed to start sheet watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			ln.Close()
			return fmt.Errorf("failed to start sheet watcher: %w", err)
		}
		defer w.Stop()
		go a.reloadOnChange(ctx, w)
		a.logger.Info("Watching sheets for changes.", "paths", a.config.SheetPaths)
	}

	if a.config.FeedURL != "" {
		f, err := feed.Connect(ctx, feed.Config{
			URL:       a.config.FeedURL,
			Namespace: a.config.FeedNamespace,
			Event:     a.config.FeedEvent,
		}, a.store)
		if err != nil {
			ln.Close()
			return err
		}
		defer f.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🩺 HTTP server starting", "address", ln.Addr().String())
		// Serve returns http.ErrServerClosed on graceful shutdown.
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("HTTP server shut down gracefully.")
	return nil
}

// reloadOnChange rebuilds the store for every debounced sheet change until
// ctx is done or the watcher stops.
func (a *App) reloadOnChange(ctx context.Context, w *sheetWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.Changes:
			if !ok {
				return
			}
			if err := a.Reload(ctx); err != nil {
				a.logger.Error("Keeping the current store.", "error", err)
			}
		}
	}
}
