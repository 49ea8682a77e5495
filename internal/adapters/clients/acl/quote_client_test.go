package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
)

func newTestClient(t *testing.T, baseURL string) *clients.Client {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-api",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   1,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	return client
}

// setupQuoteClient creates a QuoteClient with a test HTTP server.
func setupQuoteClient(t *testing.T, handler http.HandlerFunc) *QuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, server.URL),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewQuoteClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteClient(QuoteClientConfig{})
	})
}

func TestNewQuoteClient_Defaults(t *testing.T) {
	qc := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, "https://dummyjson.com")})

	assert.Equal(t, DefaultQuotePath, qc.path)
	assert.Equal(t, "quote-api", qc.Name())
	assert.NotNil(t, qc.logger)
}

func TestFetchQuote_Success(t *testing.T) {
	var gotPath string
	qc := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respondJSON(http.StatusOK, `{"id":12,"quote":"Stay hungry, stay foolish.","author":"Steve Jobs"}`)(w, r)
	})

	quote, err := qc.FetchQuote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/quotes/random", gotPath)
	assert.Equal(t, domain.Quote{Text: "Stay hungry, stay foolish.", Author: "Steve Jobs"}, quote)
}

func TestFetchQuote_MissingAuthorIsUnknown(t *testing.T) {
	for _, body := range []string{
		`{"quote":"Less is more."}`,
		`{"quote":"Less is more.","author":null}`,
		`{"quote":"Less is more.","author":"  "}`,
	} {
		t.Run(body, func(t *testing.T) {
			qc := setupQuoteClient(t, respondJSON(http.StatusOK, body))

			quote, err := qc.FetchQuote(context.Background())

			require.NoError(t, err)
			assert.Equal(t, domain.UnknownAuthor, quote.Author)
		})
	}
}

func TestFetchQuote_RejectedCandidates(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"quote not a string", `{"quote":42,"author":"A"}`, "quote"},
		{"quote missing", `{"author":"A"}`, "quote"},
		{"quote empty", `{"quote":"   ","author":"A"}`, "quote"},
		{"author not a string", `{"quote":"Q","author":["A"]}`, "author"},
		{"quote too long", `{"quote":"` + strings.Repeat("a", 1001) + `","author":"A"}`, "quote"},
		{"author too long", `{"quote":"Q","author":"` + strings.Repeat("b", 101) + `"}`, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := setupQuoteClient(t, respondJSON(http.StatusOK, tt.body))

			_, err := qc.FetchQuote(context.Background())

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "want validation error, got %v", err)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestFetchQuote_LengthLimitsCountCharacters(t *testing.T) {
	qc := setupQuoteClient(t, respondJSON(http.StatusOK,
		`{"quote":"`+strings.Repeat("é", 1000)+`","author":"`+strings.Repeat("ü", 100)+`"}`))

	quote, err := qc.FetchQuote(context.Background())

	require.NoError(t, err)
	assert.Len(t, []rune(quote.Text), 1000)
}

func TestFetchQuote_BadStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{"server error", respondJSON(http.StatusInternalServerError, `{"message":"boom"}`), domain.IsUnavailable},
		{"service unavailable", respondJSON(http.StatusServiceUnavailable, ``), domain.IsUnavailable},
		{"rate limited", respondJSON(http.StatusTooManyRequests, ``), domain.IsUnavailable},
		{"not found", respondJSON(http.StatusNotFound, `{"message":"Quote not found"}`), domain.IsNotFound},
		{"accepted", respondJSON(http.StatusAccepted, `{"quote":"Q","author":"A"}`), domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := setupQuoteClient(t, tt.handler)

			_, err := qc.FetchQuote(context.Background())

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.True(t, domain.IsUnexpectedStatus(err))
			assert.False(t, domain.IsValidation(err))
		})
	}
}

func TestFetchQuote_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"quote":`},
		{"not an object", `["quote"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc := setupQuoteClient(t, respondJSON(http.StatusOK, tt.body))

			_, err := qc.FetchQuote(context.Background())

			require.Error(t, err)
			assert.True(t, domain.IsUnavailable(err))
			assert.False(t, domain.IsUnexpectedStatus(err))
			assert.False(t, domain.IsValidation(err))
		})
	}
}

func TestFetchQuote_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	qc := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, url)})

	_, err := qc.FetchQuote(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.False(t, domain.IsUnexpectedStatus(err))
}

func TestFetchQuote_CustomPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respondJSON(http.StatusOK, `{"quote":"Q","author":"A"}`)(w, r)
	}))
	t.Cleanup(server.Close)

	qc := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, server.URL), Path: "/v2/quote"})

	_, err := qc.FetchQuote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/v2/quote", gotPath)
}

func TestQuoteClient_Check(t *testing.T) {
	qc := setupQuoteClient(t, respondJSON(http.StatusOK, `{"quote":"Q","author":"A"}`))

	assert.NoError(t, qc.Check(context.Background()))
}

func TestQuoteClient_Check_OpenCircuit(t *testing.T) {
	qc := setupQuoteClient(t, respondJSON(http.StatusServiceUnavailable, ``))

	// MaxFailures is 1, so the first failure opens the breaker.
	require.Error(t, qc.Check(context.Background()))

	err := qc.Check(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
