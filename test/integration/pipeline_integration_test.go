//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

func newTestStack(t *testing.T, opts stackOptions) *stack {
	t.Helper()

	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}

	s, err := newStack(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func TestPipeline_PropagatesRequestIDs(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.api.respond(quoteBody("Believe in the future.", "Someone"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote?category=motivation", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	req.Header.Set(middleware.HeaderCorrelationID, "corr-42")
	rec := httptest.NewRecorder()

	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "req-42", s.api.lastHeader(middleware.HeaderRequestID))
	assert.Equal(t, "corr-42", s.api.lastHeader(middleware.HeaderCorrelationID))
}

func TestPipeline_NormalizesShoutedQuotes(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.api.respond(quoteBody("NEVER GIVE UP ON YOUR DREAM.", "Anon"))

	sel := s.quotes.Select(context.Background(), domain.CategoryMotivation)

	assert.Equal(t, domain.SourceRemote, sel.Source)
	assert.Equal(t, domain.Normalize("NEVER GIVE UP ON YOUR DREAM."), sel.Quote.Text)
	assert.NotEqual(t, "NEVER GIVE UP ON YOUR DREAM.", sel.Quote.Text)
}

func TestPipeline_OverlongQuotesFallBack(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	s.api.respond(quoteBody("dream "+strings.Repeat("a", domain.MaxQuoteLength), "Anon"))

	sel := s.quotes.Select(context.Background(), domain.CategoryMotivation)

	assert.Equal(t, domain.SourceFallback, sel.Source)
	assert.Equal(t, 5, sel.Attempts)
	assert.Equal(t, int32(5), s.api.calls.Load())
}

func TestPipeline_RetriesAfterBadStatus(t *testing.T) {
	s := newTestStack(t, stackOptions{})
	// an empty body answers 503
	s.api.respond("", quoteBody("Work hard every day.", "Someone"))

	sel := s.quotes.Select(context.Background(), domain.CategoryProductivity)

	assert.Equal(t, domain.SourceRemote, sel.Source)
	assert.Equal(t, 2, sel.Attempts)
	assert.Equal(t, "Work hard every day.", sel.Quote.Text)
	assert.Equal(t, int32(2), s.api.calls.Load())
}

func TestPipeline_CircuitOpensUnderLoad(t *testing.T) {
	s := newTestStack(t, stackOptions{MaxFailures: 3})
	s.api.fail()

	for range 3 {
		s.quotes.Select(context.Background(), domain.CategoryAll)
	}
	require.Equal(t, clients.StateOpen, s.client.CircuitSnapshot().State)

	const workers = 20
	var wg sync.WaitGroup
	results := make(chan domain.QuoteSource, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.quotes.Select(context.Background(), domain.CategoryAll).Source
		}()
	}
	wg.Wait()
	close(results)

	for source := range results {
		assert.Equal(t, domain.SourceFallback, source)
	}
	assert.Equal(t, int32(3), s.api.calls.Load())
}

func TestPipeline_ConcurrentSettingsUpdatesPersist(t *testing.T) {
	dir := t.TempDir()
	s := newTestStack(t, stackOptions{Dir: dir})

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := `{"timerDuration": ` + []string{"10", "20"}[i%2] + `}`
			req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			s.engine.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	current := s.settings.Current()

	// a second process sees what the first saved last
	other := newTestStack(t, stackOptions{Dir: dir})
	assert.Equal(t, current, other.settings.Load(context.Background()))
	assert.Contains(t, []int{10, 20}, current.TimerDuration)
}

func TestPipeline_ScheduleAcrossDays(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	windows := []domain.TimeWindow{
		{Name: "morning", Trigger: domain.ClockTime{Hour: 5}, Hours: 6},
		{Name: "midday", Trigger: domain.ClockTime{Hour: 12}, Hours: 5},
	}

	s := newTestStack(t, stackOptions{Dir: dir, Windows: windows, Now: clock})

	check := func() map[string]any {
		rec := httptest.NewRecorder()
		s.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/schedule/check", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		return body
	}

	first := check()
	assert.Equal(t, true, first["show"])
	assert.Equal(t, "morning", first["window"])
	assert.Equal(t, false, check()["show"])

	now = time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)
	assert.Equal(t, "midday", check()["window"])

	now = time.Date(2026, 3, 1, 18, 0, 0, 0, time.Local)
	assert.Equal(t, false, check()["show"])

	now = time.Date(2026, 3, 2, 5, 0, 0, 0, time.Local)
	next := check()
	assert.Equal(t, "morning", next["window"])
	assert.Equal(t, "2026-03-02", next["date"])
}
