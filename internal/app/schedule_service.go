package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// WindowStatus describes one configured window at a point in time.
type WindowStatus struct {
	Name       string `json:"name"`
	Trigger    string `json:"trigger"`
	End        string `json:"end"`
	Hours      int    `json:"hours"`
	Active     bool   `json:"active"`
	LastShown  string `json:"lastShown,omitempty"`
	ShownToday bool   `json:"shownToday"`
}

// ScheduleStatus is a read-only view of the schedule state.
type ScheduleStatus struct {
	Now  time.Time `json:"now"`
	Date string    `json:"date"`

	// Active names the windows containing Now, in declaration order.
	Active  []string       `json:"active"`
	Windows []WindowStatus `json:"windows"`
}

// ScheduleService gates quote display on time windows and the persisted
// once-per-day tracker.
type ScheduleService struct {
	tracker  ports.TrackerRepository
	launcher ports.Launcher
	windows  []domain.TimeWindow
	now      func() time.Time
	recorder Recorder
	logger   *slog.Logger

	// serializes load-evaluate-save within this process
	mu sync.Mutex
}

// ScheduleServiceConfig contains configuration for the schedule service.
type ScheduleServiceConfig struct {
	// Tracker is required.
	Tracker ports.TrackerRepository

	// Launcher starts the display when a window fires. Optional for
	// decision-only use.
	Launcher ports.Launcher

	Windows []domain.TimeWindow

	// Now defaults to time.Now.
	Now func() time.Time

	Recorder Recorder
	Logger   *slog.Logger
}

// NewScheduleService creates a schedule service. It panics if Tracker is nil.
func NewScheduleService(cfg ScheduleServiceConfig) *ScheduleService {
	if cfg.Tracker == nil {
		panic("ScheduleService: Tracker is required")
	}

	svc := &ScheduleService{
		tracker:  cfg.Tracker,
		launcher: cfg.Launcher,
		windows:  slices.Clone(cfg.Windows),
		now:      cfg.Now,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}

	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.recorder == nil {
		svc.recorder = nopRecorder{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	svc.logger = svc.logger.With(slog.String("component", "app.ScheduleService"))

	return svc
}

// ShouldShowQuote evaluates the schedule at the current time.
//
// When a window fires the tracker is saved before returning. A tracker that
// cannot be read counts as empty; a tracker that cannot be written is logged
// and the decision still stands.
func (s *ScheduleService) ShouldShowQuote(ctx context.Context) domain.ScheduleDecision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	tracker, err := s.tracker.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "tracker unreadable, treating as empty", slog.Any("error", err))
	}

	decision, next := domain.EvaluateSchedule(now, tracker, s.windows)
	s.recorder.ScheduleEvaluated(decision)

	if !decision.Show {
		s.logger.DebugContext(ctx, "no window due", slog.String("date", decision.Date))
		return decision
	}

	if err := s.tracker.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist tracker",
			slog.String("window", decision.Window),
			slog.Any("error", err),
		)
	}

	s.logger.InfoContext(ctx, "window fired",
		slog.String("window", decision.Window),
		slog.String("date", decision.Date),
	)

	return decision
}

// Check evaluates the schedule and launches the display when a window fires.
// The returned error is non-nil only when launching failed.
func (s *ScheduleService) Check(ctx context.Context) (domain.ScheduleDecision, error) {
	decision := s.ShouldShowQuote(ctx)
	if !decision.Show || s.launcher == nil {
		return decision, nil
	}

	if err := s.launcher.Launch(ctx); err != nil {
		return decision, fmt.Errorf("launching display for window %q: %w", decision.Window, err)
	}

	return decision, nil
}

// Status reports each window's membership and tracker entry without
// changing anything.
func (s *ScheduleService) Status(ctx context.Context) ScheduleStatus {
	now := s.now()
	today := now.Format(domain.DateLayout)

	tracker, err := s.tracker.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "tracker unreadable, treating as empty", slog.Any("error", err))
	}

	status := ScheduleStatus{
		Now:     now,
		Date:    today,
		Active:  []string{},
		Windows: make([]WindowStatus, 0, len(s.windows)),
	}

	active := make(map[string]bool)
	for _, w := range domain.ActiveWindows(now, s.windows) {
		status.Active = append(status.Active, w.Name)
		active[w.Name] = true
	}

	for _, w := range s.windows {
		status.Windows = append(status.Windows, WindowStatus{
			Name:       w.Name,
			Trigger:    w.Trigger.String(),
			End:        w.End().String(),
			Hours:      w.Hours,
			Active:     active[w.Name],
			LastShown:  tracker[w.Name],
			ShownToday: tracker.ShownOn(w.Name, today),
		})
	}

	return status
}
