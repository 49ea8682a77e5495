// Package app contains application services that orchestrate use cases.
// It coordinates domain logic and infrastructure through ports.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// DefaultMaxAttempts bounds how many remote quotes are tried per selection.
const DefaultMaxAttempts = 5

// AttemptOutcome classifies a single remote fetch.
type AttemptOutcome int

const (
	// OutcomeMatched means a valid quote matching the category was fetched.
	OutcomeMatched AttemptOutcome = iota

	// OutcomeRejected means a response arrived but the quote was unusable or
	// off-category. Another attempt may follow.
	OutcomeRejected

	// OutcomeHardFailure means the source failed. No further attempts are made.
	OutcomeHardFailure
)

// String returns the outcome label used in logs and metrics.
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeRejected:
		return "rejected"
	case OutcomeHardFailure:
		return "hard_failure"
	default:
		return "unknown"
	}
}

// Selection is a chosen quote with how it was obtained.
type Selection struct {
	Quote    domain.Quote       `json:"quote"`
	Category domain.Category    `json:"category"`
	Source   domain.QuoteSource `json:"source"`
	Attempts int                `json:"attempts"`
}

// QuoteService selects quotes for a category, preferring the remote source
// and falling back to a curated list.
type QuoteService struct {
	quoteClient ports.QuoteClient
	maxAttempts int
	fallback    []domain.Quote
	intN        func(n int) int
	recorder    Recorder
	logger      *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// QuoteClient is required.
	QuoteClient ports.QuoteClient

	// MaxAttempts defaults to DefaultMaxAttempts.
	MaxAttempts int

	// Fallback defaults to the curated list.
	Fallback []domain.Quote

	// IntN returns a uniform random int in [0, n). Defaults to math/rand/v2.
	IntN func(n int) int

	Recorder Recorder
	Logger   *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// It panics if QuoteClient is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.QuoteClient == nil {
		panic("QuoteService: QuoteClient is required")
	}

	svc := &QuoteService{
		quoteClient: cfg.QuoteClient,
		maxAttempts: cfg.MaxAttempts,
		fallback:    cfg.Fallback,
		intN:        cfg.IntN,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger,
	}

	if svc.maxAttempts <= 0 {
		svc.maxAttempts = DefaultMaxAttempts
	}
	if len(svc.fallback) == 0 {
		svc.fallback = CuratedQuotes()
	}
	if svc.intN == nil {
		svc.intN = rand.IntN
	}
	if svc.recorder == nil {
		svc.recorder = nopRecorder{}
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	svc.logger = svc.logger.With(slog.String("component", "app.QuoteService"))

	return svc
}

// GetQuote returns a quote for category. It never fails.
func (s *QuoteService) GetQuote(ctx context.Context, category domain.Category) domain.Quote {
	return s.Select(ctx, category).Quote
}

// Select runs the retry-with-fallback pipeline and reports how the quote
// was chosen.
//
// Up to maxAttempts remote quotes are fetched. A rejected or off-category
// quote consumes an attempt; a hard failure ends the loop at once. The first
// matching quote is normalized and returned. Otherwise a curated quote is
// picked.
func (s *QuoteService) Select(ctx context.Context, category domain.Category) Selection {
	attempts := 0

loop:
	for attempts < s.maxAttempts {
		attempts++

		outcome, quote := s.attempt(ctx, category, attempts)
		s.recorder.QuoteAttempt(outcome)

		switch outcome {
		case OutcomeMatched:
			sel := Selection{
				Quote:    domain.Quote{Text: domain.Normalize(quote.Text), Author: quote.Author},
				Category: category,
				Source:   domain.SourceRemote,
				Attempts: attempts,
			}
			s.recorder.QuoteSelected(sel.Source, category)

			s.logger.InfoContext(ctx, "selected remote quote",
				slog.String("category", string(category)),
				slog.Int("attempts", attempts),
				slog.String("author", sel.Quote.Author),
			)

			return sel
		case OutcomeHardFailure:
			break loop
		case OutcomeRejected:
		}
	}

	sel := Selection{
		Quote:    s.pickFallback(category),
		Category: category,
		Source:   domain.SourceFallback,
		Attempts: attempts,
	}
	s.recorder.QuoteSelected(sel.Source, category)

	s.logger.InfoContext(ctx, "selected fallback quote",
		slog.String("category", string(category)),
		slog.Int("attempts", attempts),
		slog.String("author", sel.Quote.Author),
	)

	return sel
}

func (s *QuoteService) attempt(ctx context.Context, category domain.Category, n int) (AttemptOutcome, domain.Quote) {
	quote, err := s.quoteClient.FetchQuote(ctx)
	if err != nil {
		if domain.IsValidation(err) || domain.IsUnexpectedStatus(err) {
			s.logger.DebugContext(ctx, "rejected remote quote",
				slog.Int("attempt", n),
				slog.Any("error", err),
			)

			return OutcomeRejected, domain.Quote{}
		}

		s.logger.WarnContext(ctx, "quote fetch failed",
			slog.Int("attempt", n),
			slog.Any("error", err),
		)

		return OutcomeHardFailure, domain.Quote{}
	}

	quote = quote.WithDefaults()
	if err := quote.Validate(); err != nil {
		s.logger.DebugContext(ctx, "rejected remote quote",
			slog.Int("attempt", n),
			slog.Any("error", err),
		)

		return OutcomeRejected, domain.Quote{}
	}

	if !domain.Matches(quote.Text, category) {
		s.logger.DebugContext(ctx, "remote quote does not match category",
			slog.Int("attempt", n),
			slog.String("category", string(category)),
		)

		return OutcomeRejected, domain.Quote{}
	}

	return OutcomeMatched, quote
}

// pickFallback draws uniformly from the curated quotes matching category,
// or from the whole list when category is all or nothing matches.
func (s *QuoteService) pickFallback(category domain.Category) domain.Quote {
	pool := s.fallback

	if category != domain.CategoryAll {
		var matching []domain.Quote
		for _, q := range s.fallback {
			if domain.Matches(q.Text, category) {
				matching = append(matching, q)
			}
		}

		if len(matching) > 0 {
			pool = matching
		}
	}

	return pool[s.intN(len(pool))]
}
