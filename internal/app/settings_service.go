package app

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// SettingsPatch carries a partial settings update. Nil fields are left as is.
type SettingsPatch struct {
	TimerDuration *int             `json:"timerDuration,omitempty"`
	Position      *domain.Position `json:"position,omitempty"`
	FontSize      *domain.FontSize `json:"fontSize,omitempty"`
	Category      *domain.Category `json:"category,omitempty"`
	Theme         *domain.Theme    `json:"theme,omitempty"`
}

// Apply runs the validated setter for every present field.
func (p SettingsPatch) Apply(s *domain.Settings) error {
	if p.TimerDuration != nil {
		if err := s.SetTimerDuration(*p.TimerDuration); err != nil {
			return err
		}
	}
	if p.Position != nil {
		if err := s.SetPosition(*p.Position); err != nil {
			return err
		}
	}
	if p.FontSize != nil {
		if err := s.SetFontSize(*p.FontSize); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := s.SetCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.Theme != nil {
		if err := s.SetTheme(*p.Theme); err != nil {
			return err
		}
	}

	return nil
}

// SettingsService owns the in-memory settings for the process lifetime and
// writes them back after every change.
type SettingsService struct {
	repo   ports.SettingsRepository
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.Settings
}

// SettingsServiceConfig contains configuration for the settings service.
type SettingsServiceConfig struct {
	Repository ports.SettingsRepository
	Logger     *slog.Logger
}

// NewSettingsService creates a settings service holding the defaults until
// Load is called. It panics if Repository is nil.
func NewSettingsService(cfg SettingsServiceConfig) *SettingsService {
	if cfg.Repository == nil {
		panic("SettingsService: Repository is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsService{
		repo:    cfg.Repository,
		logger:  logger.With(slog.String("component", "app.SettingsService")),
		current: domain.DefaultSettings(),
	}
}

// Load reads settings from the repository and makes them current.
// Read problems are logged; the per-field defaults are used instead.
func (s *SettingsService) Load(ctx context.Context) domain.Settings {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "using default settings", slog.Any("error", err))
	}

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	return settings
}

// Current returns the in-memory settings.
func (s *SettingsService) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Update applies mutate to a copy of the current settings. On success the
// copy becomes current and is persisted. A validation error leaves the
// current settings untouched. Persistence failures are logged only.
func (s *SettingsService) Update(ctx context.Context, mutate func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.current
	if err := mutate(&candidate); err != nil {
		return s.current, err
	}
	s.current = candidate

	// held across Save so concurrent updates reach disk in order
	if err := s.repo.Save(ctx, candidate); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist settings", slog.Any("error", err))
	}

	return candidate, nil
}

// Patch applies a partial update atomically.
func (s *SettingsService) Patch(ctx context.Context, patch SettingsPatch) (domain.Settings, error) {
	return s.Update(ctx, patch.Apply)
}

// Set updates one field addressed by its JSON key from a string value.
func (s *SettingsService) Set(ctx context.Context, key, value string) (domain.Settings, error) {
	var patch SettingsPatch

	switch key {
	case "timerDuration":
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return s.Current(), domain.NewValidationErrorWithValue(key, "must be an integer number of seconds", value)
		}
		patch.TimerDuration = &seconds
	case "position":
		p := domain.Position(value)
		patch.Position = &p
	case "fontSize":
		f := domain.FontSize(value)
		patch.FontSize = &f
	case "category":
		c := domain.Category(value)
		patch.Category = &c
	case "theme":
		t := domain.Theme(value)
		patch.Theme = &t
	default:
		return s.Current(), domain.NewNotFoundError("setting", key)
	}

	return s.Patch(ctx, patch)
}

// ToggleTheme switches between light and dark and persists the result.
func (s *SettingsService) ToggleTheme(ctx context.Context) domain.Settings {
	settings, _ := s.Update(ctx, func(c *domain.Settings) error {
		c.ToggleTheme()
		return nil
	})

	return settings
}
