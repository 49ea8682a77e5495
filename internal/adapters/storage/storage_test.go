package storage

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSettingsStore_MissingFileYieldsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "user_settings.json"), discardLogger())

	settings, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsStore_CorruptFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_settings.json")
	writeFile(t, path, "{not json")

	settings, err := NewSettingsStore(path, discardLogger()).Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing user_settings.json")
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsStore_FieldsDefaultIndependently(t *testing.T) {
	tests := []struct {
		name string
		body string
		want func(*domain.Settings)
	}{
		{
			name: "out of range timer and unknown theme",
			body: `{"timerDuration": 999, "theme": "blue"}`,
			want: func(*domain.Settings) {},
		},
		{
			name: "valid theme, invalid position",
			body: `{"theme": "dark", "position": "middle"}`,
			want: func(s *domain.Settings) { s.Theme = domain.ThemeDark },
		},
		{
			name: "wrong json types",
			body: `{"timerDuration": "30", "fontSize": 3, "category": null, "position": true}`,
			want: func(*domain.Settings) {},
		},
		{
			name: "fractional timer",
			body: `{"timerDuration": 20.5, "category": "learning"}`,
			want: func(s *domain.Settings) {
				s.TimerDuration = 20
				s.Category = domain.CategoryLearning
			},
		},
		{
			name: "whole float timer",
			body: `{"timerDuration": 30.0, "theme": "dark"}`,
			want: func(s *domain.Settings) {
				s.TimerDuration = 30
				s.Theme = domain.ThemeDark
			},
		},
		{
			name: "timer above range after truncation",
			body: `{"timerDuration": 60.9}`,
			want: func(s *domain.Settings) { s.TimerDuration = 60 },
		},
		{
			name: "timer far out of range",
			body: `{"timerDuration": 1e300}`,
			want: func(*domain.Settings) {},
		},

		{
			name: "all valid with unknown key",
			body: `{"timerDuration": 60, "position": "topLeft", "fontSize": "large", "category": "all", "theme": "dark", "extra": 1}`,
			want: func(s *domain.Settings) {
				s.TimerDuration = 60
				s.Position = domain.PositionTopLeft
				s.FontSize = domain.FontSizeLarge
				s.Category = domain.CategoryAll
				s.Theme = domain.ThemeDark
			},
		},
		{
			name: "boundaries",
			body: `{"timerDuration": 5}`,
			want: func(s *domain.Settings) { s.TimerDuration = 5 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "user_settings.json")
			writeFile(t, path, tt.body)

			got, err := NewSettingsStore(path, discardLogger()).Load(context.Background())

			require.NoError(t, err)
			want := domain.DefaultSettings()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestSettingsStore_RoundTrip(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "user_settings.json"), discardLogger())
	want := domain.Settings{
		TimerDuration: 42,
		Position:      domain.PositionTopRight,
		FontSize:      domain.FontSizeSmall,
		Category:      domain.CategoryCreativity,
		Theme:         domain.ThemeDark,
	}

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsStore_SaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_settings.json")
	store := NewSettingsStore(path, discardLogger())

	require.NoError(t, store.Save(context.Background(), domain.DefaultSettings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{
  "timerDuration": 15,
  "position": "bottomRight",
  "fontSize": "medium",
  "category": "motivation",
  "theme": "light"
}`, string(data))
}

func TestSettingsStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewSettingsStore(filepath.Join(dir, "user_settings.json"), discardLogger())

	require.NoError(t, store.Save(context.Background(), domain.DefaultSettings()))
	require.NoError(t, store.Save(context.Background(), domain.DefaultSettings()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user_settings.json", entries[0].Name())
}

func TestSettingsStore_SaveFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing", "user_settings.json")
	store := NewSettingsStore(path, discardLogger())

	err := store.Save(context.Background(), domain.DefaultSettings())

	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestTrackerStore_LoadCases(t *testing.T) {
	tests := []struct {
		name    string
		body    *string
		want    domain.Tracker
		wantErr bool
	}{
		{name: "missing file", body: nil, want: domain.Tracker{}},
		{name: "corrupt", body: ptr("[1,2"), want: domain.Tracker{}, wantErr: true},
		{name: "not an object", body: ptr(`"x"`), want: domain.Tracker{}, wantErr: true},
		{
			name: "drops non string entries",
			body: ptr(`{"morning": "2026-03-01", "midday": 5}`),
			want: domain.Tracker{"morning": "2026-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".quote_tracker.json")
			if tt.body != nil {
				writeFile(t, path, *tt.body)
			}

			got, err := NewTrackerStore(path, discardLogger()).Load(context.Background())

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrackerStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".quote_tracker.json")
	store := NewTrackerStore(path, discardLogger())
	want := domain.Tracker{"morning": "2026-03-01", "midday": "2026-02-28"}

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)

	var onDisk map[string]string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, map[string]string(want), onDisk)
}

func TestTrackerStore_SaveNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".quote_tracker.json")

	require.NoError(t, NewTrackerStore(path, discardLogger()).Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestStores_HealthCheck(t *testing.T) {
	dir := t.TempDir()

	settings := NewSettingsStore(filepath.Join(dir, "s.json"), nil)
	tracker := NewTrackerStore(filepath.Join(dir, "t.json"), nil)

	assert.Equal(t, "settings-file", settings.Name())
	assert.Equal(t, "tracker-file", tracker.Name())
	require.NoError(t, settings.Check(context.Background()))
	require.NoError(t, tracker.Check(context.Background()))

	gone := NewTrackerStore(filepath.Join(dir, "nope", "t.json"), nil)
	assert.Error(t, gone.Check(context.Background()))

	file := filepath.Join(dir, "plain")
	writeFile(t, file, "")
	notDir := NewSettingsStore(filepath.Join(file, "s.json"), nil)
	assert.Error(t, notDir.Check(context.Background()))
}

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Load(context.Context) domain.Settings {
	r.calls.Add(1)
	return domain.DefaultSettings()
}

func TestSettingsWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user_settings.json")
	reloader := &countingReloader{}

	w, err := NewSettingsWatcher(WatcherConfig{
		Path:     path,
		Reloader: reloader,
		Debounce: 20 * time.Millisecond,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.Start(context.Background()))

	// unrelated files are ignored
	writeFile(t, filepath.Join(dir, "other.json"), "{}")

	store := NewSettingsStore(path, discardLogger())
	require.NoError(t, store.Save(context.Background(), domain.DefaultSettings()))

	assert.Eventually(t, func() bool { return reloader.calls.Load() >= 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestSettingsWatcher_RequiresReloader(t *testing.T) {
	_, err := NewSettingsWatcher(WatcherConfig{Path: "x.json"})

	require.Error(t, err)
}

func TestSettingsWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewSettingsWatcher(WatcherConfig{
		Path:     filepath.Join(t.TempDir(), "s.json"),
		Reloader: &countingReloader{},
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Close())
	assert.NotPanics(t, func() { _ = w.Close() })
}

func ptr(s string) *string { return &s }
