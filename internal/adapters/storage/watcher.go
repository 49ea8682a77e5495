package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// DefaultDebounce collapses the burst of events an editor or an atomic
// rename produces into one reload.
const DefaultDebounce = 250 * time.Millisecond

// SettingsReloader reloads settings from disk.
type SettingsReloader interface {
	Load(ctx context.Context) domain.Settings
}

// WatcherConfig configures a SettingsWatcher.
type WatcherConfig struct {
	// Path is the settings file to follow.
	Path string

	// Reloader is called after the file changes.
	Reloader SettingsReloader

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	Logger *slog.Logger
}

// SettingsWatcher reloads settings when another process rewrites the file.
// The directory is watched rather than the file, since atomic replacement
// swaps the inode.
type SettingsWatcher struct {
	path     string
	reloader SettingsReloader
	debounce time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	trigger chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
}

// NewSettingsWatcher creates a watcher. Call Start to begin watching.
func NewSettingsWatcher(cfg WatcherConfig) (*SettingsWatcher, error) {
	if cfg.Reloader == nil {
		return nil, errors.New("settings watcher: reloader is required")
	}

	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving settings path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SettingsWatcher{
		path:     absPath,
		reloader: cfg.Reloader,
		debounce: debounce,
		logger:   logger.With(slog.String("component", "storage.SettingsWatcher")),
		watcher:  watcher,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the settings directory until ctx is done or Close is called.
func (w *SettingsWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.logger.InfoContext(ctx, "watching settings file", slog.String("path", w.path))

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)

	return nil
}

// Close stops watching and waits for the loops to exit.
func (w *SettingsWatcher) Close() error {
	var err error
	w.stop.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	w.wg.Wait()

	return err
}

func (w *SettingsWatcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.DebugContext(ctx, "settings file changed", slog.String("op", event.Op.String()))
				w.notify()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WarnContext(ctx, "settings watcher error", slog.Any("error", err))
		}
	}
}

// notify requests a reload without blocking; one pending request is enough.
func (w *SettingsWatcher) notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

func (w *SettingsWatcher) reloadLoop(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.trigger:
			timer.Reset(w.debounce)
		case <-timer.C:
			settings := w.reloader.Load(ctx)
			w.logger.InfoContext(ctx, "settings reloaded",
				slog.String("category", string(settings.Category)),
				slog.String("theme", string(settings.Theme)))
		}
	}
}
