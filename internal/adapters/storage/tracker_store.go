package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// TrackerStore implements ports.TrackerRepository on a JSON file mapping
// window name to the last date a quote was shown.
type TrackerStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewTrackerStore creates a store for the tracker file at path.
func NewTrackerStore(path string, logger *slog.Logger) *TrackerStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TrackerStore{
		path:   path,
		logger: logger.With(slog.String("component", "storage.TrackerStore")),
	}
}

// Path returns the tracker file location.
func (s *TrackerStore) Path() string {
	return s.path
}

// Load reads the tracker. A missing file is an empty tracker. An unreadable
// or corrupt file is an empty tracker plus the error. Entries whose value is
// not a string are dropped.
func (s *TrackerStore) Load(ctx context.Context) (domain.Tracker, error) {
	data, err := readFile(s.path)
	if err != nil {
		return domain.Tracker{}, err
	}
	if data == nil {
		return domain.Tracker{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Tracker{}, fmt.Errorf("parsing %s: %w", filepath.Base(s.path), err)
	}

	tracker := make(domain.Tracker, len(raw))
	for window, value := range raw {
		var date string
		if err := json.Unmarshal(value, &date); err != nil {
			s.logger.DebugContext(ctx, "dropping tracker entry",
				slog.String("window", window),
				slog.String("value", string(value)))

			continue
		}

		tracker[window] = date
	}

	return tracker, nil
}

// Save writes the tracker atomically.
func (s *TrackerStore) Save(ctx context.Context, tracker domain.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tracker == nil {
		tracker = domain.Tracker{}
	}

	if err := writeJSONAtomic(s.path, tracker); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "tracker saved", slog.String("path", s.path))

	return nil
}

// Name implements ports.HealthChecker.
func (s *TrackerStore) Name() string {
	return "tracker-file"
}

// Check verifies the tracker directory is usable.
// Implements ports.HealthChecker.
func (s *TrackerStore) Check(_ context.Context) error {
	return checkDir(filepath.Dir(s.path))
}

// checkDir reports whether dir exists and is a directory.
func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("storage directory: %w", err)
	}
	if !info.IsDir() {
		return errors.New("storage path is not a directory: " + dir)
	}

	return nil
}
