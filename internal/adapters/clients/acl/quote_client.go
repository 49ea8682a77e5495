package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

// DefaultQuotePath is the DummyJSON random quote endpoint.
const DefaultQuotePath = "/quotes/random"

const fetchOperation = "fetch random quote"

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API host.
	Client *clients.Client

	// Path is the random quote endpoint. Defaults to DefaultQuotePath.
	Path string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient against the DummyJSON quotes API.
type QuoteClient struct {
	BaseAdapter

	path   string
	logger *slog.Logger
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.Path
	if path == "" {
		path = DefaultQuotePath
	}

	return &QuoteClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, cfg.Client.ServiceName()),
		path:        path,
		logger:      logger,
	}
}

// dummyJSONQuote is the external DTO. Fields stay raw so a value of the
// wrong JSON type is reported as a rejected quote rather than a decode failure.
type dummyJSONQuote struct {
	ID     json.RawMessage `json:"id"`
	Quote  json.RawMessage `json:"quote"`
	Author json.RawMessage `json:"author"`
}

// FetchQuote fetches one random quote.
// Implements ports.QuoteClient.
//
// A ValidationError means the response was well formed but the quote is
// unusable. Any other error means the source itself failed.
func (c *QuoteClient) FetchQuote(ctx context.Context) (domain.Quote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", c.path))

	body, err := c.Get(ctx, c.path, fetchOperation)
	if err != nil {
		return domain.Quote{}, err
	}

	external, err := DecodeResponse[dummyJSONQuote](body)
	if err != nil {
		return domain.Quote{}, domain.NewUnavailableError(c.ServiceName(), fmt.Sprintf("malformed response: %v", err))
	}

	quote, err := translateQuote(external)
	if err != nil {
		c.logger.DebugContext(ctx, "quote rejected",
			slog.String("quote_id", string(external.ID)),
			slog.Any("error", err))

		return domain.Quote{}, err
	}

	c.logger.Log(ctx, logging.LevelTrace, "translated external DTO to domain",
		slog.String("quote_id", string(external.ID)),
		slog.String("author", quote.Author))

	return quote, nil
}

// translateQuote converts the external response to a domain Quote.
func translateQuote(ext *dummyJSONQuote) (domain.Quote, error) {
	text, ok, err := OptionalString(ext.Quote, "quote")
	if err != nil {
		return domain.Quote{}, err
	}
	if !ok {
		return domain.Quote{}, domain.NewValidationError("quote", "is required")
	}

	author, _, err := OptionalString(ext.Author, "author")
	if err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{Text: text, Author: author}.WithDefaults()
	if err := quote.Validate(); err != nil {
		return domain.Quote{}, err
	}

	return quote, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.ServiceName()
}

// Check reports the quote API as down while its circuit breaker is open,
// and otherwise probes the endpoint.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	if snap := c.Client().CircuitSnapshot(); snap.State == clients.StateOpen {
		return fmt.Errorf("circuit breaker open since %s", snap.LastFailure.Format("15:04:05"))
	}

	body, err := c.Get(ctx, c.path, "health check")
	if err != nil {
		return err
	}

	return body.Close()
}
