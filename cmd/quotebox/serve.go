package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/jsamuelsen/quotebox/internal/adapters/http"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and health endpoints until interrupted",
		Action: action(func(ctx context.Context, _ *cli.Context, comp *components) error {
			ctx, stop := signalContext(ctx)
			defer stop()

			return serve(ctx, comp)
		}),
	}
}

func serve(ctx context.Context, comp *components) error {
	logger := comp.logger

	logger.InfoContext(ctx, "starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", comp.cfg.App.Environment),
	)

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(comp.settingsStore); err != nil {
		return fmt.Errorf("registering settings health check: %w", err)
	}
	if err := healthRegistry.Register(comp.trackerStore); err != nil {
		return fmt.Errorf("registering tracker health check: %w", err)
	}
	// the curated fallback keeps quotes flowing while the API is down
	if err := healthRegistry.RegisterOptional(comp.quoteClient); err != nil {
		return fmt.Errorf("registering quote API health check: %w", err)
	}

	comp.settings.Load(ctx)

	watcher, err := storage.NewSettingsWatcher(storage.WatcherConfig{
		Path:     comp.settingsStore.Path(),
		Reloader: comp.settings,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.WarnContext(ctx, "settings watcher close error", slog.Any("error", err))
		}
	}()

	server := http.New(&comp.cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: comp.cfg.App.Name,
		Timeout:     comp.cfg.Server.RequestTimeout,
		Health:      handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), nil),
		Quote:       handlers.NewQuoteHandler(comp.quotes, comp.settings),
		Settings:    handlers.NewSettingsHandler(comp.settings),
		Schedule:    handlers.NewScheduleHandler(comp.schedule),
	})

	return waitForShutdown(ctx, logger, server, server.Start(), comp.cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until ctx is canceled or the server fails, then
// drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.InfoContext(ctx, "received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.InfoContext(shutdownCtx, "initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.InfoContext(shutdownCtx, "shutdown complete")

	return nil
}
