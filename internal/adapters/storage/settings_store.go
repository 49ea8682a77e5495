package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

// SettingsStore implements ports.SettingsRepository on a JSON file.
type SettingsStore struct {
	path   string
	logger *slog.Logger

	// mu serializes writers within this process.
	mu sync.Mutex
}

// NewSettingsStore creates a store for the settings file at path.
func NewSettingsStore(path string, logger *slog.Logger) *SettingsStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsStore{
		path:   path,
		logger: logger.With(slog.String("component", "storage.SettingsStore")),
	}
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads the settings file. Each field is validated on its own, so an
// invalid or missing field falls back to its default without touching the
// others. A missing file yields defaults and no error.
func (s *SettingsStore) Load(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	data, err := readFile(s.path)
	if err != nil {
		return settings, err
	}
	if data == nil {
		s.logger.DebugContext(ctx, "settings file not found, using defaults", slog.String("path", s.path))
		return settings, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", filepath.Base(s.path), err)
	}

	for key, apply := range settingsFields {
		value, ok := raw[key]
		if !ok {
			continue
		}

		if err := apply(&settings, value); err != nil {
			s.logger.Log(ctx, logging.LevelTrace, "settings field replaced by default",
				slog.String("field", key),
				slog.String("value", string(value)),
				slog.Any("error", err))
		}
	}

	return settings, nil
}

// Save writes the settings atomically.
func (s *SettingsStore) Save(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSONAtomic(s.path, settings); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "settings saved", slog.String("path", s.path))

	return nil
}

// Name implements ports.HealthChecker.
func (s *SettingsStore) Name() string {
	return "settings-file"
}

// Check verifies the settings directory is usable.
// Implements ports.HealthChecker.
func (s *SettingsStore) Check(_ context.Context) error {
	return checkDir(filepath.Dir(s.path))
}

// settingsFields decodes one JSON key and applies it through the validated
// setter. A decode or validation failure leaves the field unchanged.
var settingsFields = map[string]func(*domain.Settings, json.RawMessage) error{
	// Any JSON number is accepted and truncated toward zero.
	"timerDuration": func(s *domain.Settings, raw json.RawMessage) error {
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v < domain.MinTimerDuration || v >= domain.MaxTimerDuration+1 {
			return fmt.Errorf("timerDuration %v out of range", v)
		}
		return s.SetTimerDuration(int(v))
	},
	"position": func(s *domain.Settings, raw json.RawMessage) error {
		var v domain.Position
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return s.SetPosition(v)
	},
	"fontSize": func(s *domain.Settings, raw json.RawMessage) error {
		var v domain.FontSize
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return s.SetFontSize(v)
	},
	"category": func(s *domain.Settings, raw json.RawMessage) error {
		var v domain.Category
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return s.SetCategory(v)
	},
	"theme": func(s *domain.Settings, raw json.RawMessage) error {
		var v domain.Theme
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		return s.SetTheme(v)
	},
}
