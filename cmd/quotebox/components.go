package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotebox/internal/adapters/display"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
	"github.com/jsamuelsen/quotebox/internal/platform/telemetry"
)

// bootstrapOptions are the global flags every command shares.
type bootstrapOptions struct {
	Profile   string
	ConfigDir string
	Stdout    io.Writer
	Stderr    io.Writer

	// Command names the running command in telemetry.
	Command string
}

// components is the wired object graph for one command run.
type components struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	metrics   *telemetry.QuoteMetrics

	quoteClient   *acl.QuoteClient
	settingsStore *storage.SettingsStore
	trackerStore  *storage.TrackerStore
	launcher      *display.ExecLauncher

	quotes   *app.QuoteService
	settings *app.SettingsService
	schedule *app.ScheduleService
}

// bootstrap loads configuration and wires every component in dependency
// order: config, logging, telemetry, quote API client, storage, services.
// The returned context carries the logger and a run ID that tags outbound
// quote API requests.
func bootstrap(ctx context.Context, opts bootstrapOptions) (context.Context, *components, error) {
	cfg, err := config.LoadWithOptions(config.Options{Profile: opts.Profile, Dir: opts.ConfigDir})
	if err != nil {
		return ctx, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ctx, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, opts.Stderr)
	logging.SetDefault(logger)

	runID := uuid.New().String()
	ctx = middleware.WithTrace(ctx, middleware.Trace{RequestID: runID})
	ctx = logging.WithContext(ctx, logger)
	ctx = logging.WithRequestID(ctx, runID)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		RunID:        runID,
		Command:      opts.Command,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	metrics, err := telemetry.NewQuoteMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return ctx, nil, fmt.Errorf("registering metrics: %w", err)
	}

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Quote.BaseURL,
		ServiceName: cfg.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.Client.UserAgent,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("creating quote API client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Path:   cfg.Quote.Path,
		Logger: logger,
	})

	dir, err := cfg.Storage.ResolveDir()
	if err != nil {
		return ctx, nil, fmt.Errorf("resolving storage directory: %w", err)
	}
	settingsStore := storage.NewSettingsStore(filepath.Join(dir, cfg.Storage.SettingsFile), logger)
	trackerStore := storage.NewTrackerStore(filepath.Join(dir, cfg.Storage.TrackerFile), logger)

	windows, err := cfg.Schedule.TimeWindows()
	if err != nil {
		return ctx, nil, fmt.Errorf("invalid schedule: %w", err)
	}

	var globalArgs []string
	if opts.Profile != "" {
		globalArgs = append(globalArgs, "--profile", opts.Profile)
	}
	if opts.ConfigDir != "" {
		globalArgs = append(globalArgs, "--config-dir", opts.ConfigDir)
	}

	launcher, err := display.NewExecLauncher(display.LauncherConfig{
		Command:    cfg.Display.Command,
		GlobalArgs: globalArgs,
		Stdout:     opts.Stdout,
		Stderr:     opts.Stderr,
		Logger:     logger,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("creating launcher: %w", err)
	}

	return ctx, &components{
		cfg:           cfg,
		logger:        logger,
		telemetry:     tel,
		metrics:       metrics,
		quoteClient:   quoteClient,
		settingsStore: settingsStore,
		trackerStore:  trackerStore,
		launcher:      launcher,
		quotes: app.NewQuoteService(app.QuoteServiceConfig{
			QuoteClient: quoteClient,
			MaxAttempts: cfg.Quote.MaxAttempts,
			Recorder:    metrics,
			Logger:      logger,
		}),
		settings: app.NewSettingsService(app.SettingsServiceConfig{
			Repository: settingsStore,
			Logger:     logger,
		}),
		schedule: app.NewScheduleService(app.ScheduleServiceConfig{
			Tracker:  trackerStore,
			Launcher: launcher,
			Windows:  windows,
			Recorder: metrics,
			Logger:   logger,
		}),
	}, nil
}

// Close flushes telemetry.
func (c *components) Close(ctx context.Context) {
	if err := c.telemetry.Shutdown(ctx); err != nil {
		c.logger.ErrorContext(ctx, "telemetry shutdown error", slog.Any("error", err))
	}
}
