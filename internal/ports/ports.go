// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that blocks on I/O
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrValidation, ErrUnavailable)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotebox/internal/domain"
)

// QuoteClient fetches a single candidate quote from a remote source.
//
// Implementations perform exactly one request per call. Retrying and
// category filtering belong to the application layer.
//
// Error contract:
//   - domain.ErrValidation: the response arrived but a field is unusable
//     (not a string, empty, or over the length limit). The caller may try again.
//   - anything else: transport, status or decoding failure. The caller
//     should stop asking and fall back.
type QuoteClient interface {
	FetchQuote(ctx context.Context) (domain.Quote, error)
}

// SettingsRepository loads and persists user settings.
type SettingsRepository interface {
	// Load returns the persisted settings. Fields that are missing or invalid
	// are replaced by their defaults. The error reports why the file could not
	// be read or parsed; the returned settings are usable either way.
	Load(ctx context.Context) (domain.Settings, error)

	// Save replaces the persisted settings atomically.
	Save(ctx context.Context, settings domain.Settings) error
}

// TrackerRepository loads and persists the schedule tracker.
type TrackerRepository interface {
	// Load returns the tracker. A missing or unreadable file yields an empty
	// tracker together with the error, if any.
	Load(ctx context.Context) (domain.Tracker, error)

	// Save replaces the persisted tracker atomically.
	Save(ctx context.Context, tracker domain.Tracker) error
}

// Launcher starts the quote display.
type Launcher interface {
	Launch(ctx context.Context) error
}
