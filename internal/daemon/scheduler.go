// Package daemon runs the schedule check periodically in-process.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// jobName names the gocron job in logs.
const jobName = "schedule-check"

// Checker evaluates the schedule and launches the display when due.
type Checker interface {
	Check(ctx context.Context) (domain.ScheduleDecision, error)
}

// Config configures a Scheduler.
type Config struct {
	// Interval between checks. Required.
	Interval time.Duration

	// RunOnStart runs a check as soon as the scheduler starts.
	RunOnStart bool

	// Checker is required.
	Checker Checker

	// Clock defaults to the real clock.
	Clock clockwork.Clock

	Logger *slog.Logger
}

// Scheduler replaces an external cron entry: it calls Checker.Check every
// Interval. Runs never overlap; a run still in progress when the next one
// is due delays it.
type Scheduler struct {
	scheduler  gocron.Scheduler
	checker    Checker
	interval   time.Duration
	runOnStart bool
	logger     *slog.Logger
}

// NewScheduler creates a scheduler. Call Start to begin checking.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Checker == nil {
		return nil, errors.New("daemon: checker is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("daemon: interval must be positive, got %s", cfg.Interval)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "daemon.Scheduler"))

	opts := []gocron.SchedulerOption{gocron.WithLogger(logger)}
	if cfg.Clock != nil {
		opts = append(opts, gocron.WithClock(cfg.Clock))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler:  s,
		checker:    cfg.Checker,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		logger:     logger,
	}, nil
}

// Start schedules the check job and starts the scheduler. ctx is handed to
// every check.
func (s *Scheduler) Start(ctx context.Context) error {
	jobOpts := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if s.runOnStart {
		jobOpts = append(jobOpts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runCheck, ctx),
		jobOpts...,
	); err != nil {
		return fmt.Errorf("failed to create %s job: %w", jobName, err)
	}

	s.logger.InfoContext(ctx, "starting scheduler",
		slog.Duration("interval", s.interval),
		slog.Bool("run_on_start", s.runOnStart))
	s.scheduler.Start()

	return nil
}

// Stop shuts the scheduler down and waits for a running check to finish.
func (s *Scheduler) Stop() error {
	s.logger.Info("stopping scheduler")
	return s.scheduler.Shutdown()
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return s.Stop()
}

func (s *Scheduler) runCheck(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	decision, err := s.checker.Check(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled check failed",
			slog.String("window", decision.Window),
			slog.Any("error", err))
		return
	}

	if decision.Show {
		s.logger.InfoContext(ctx, "display launched", slog.String("window", decision.Window))
	}
}
