//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/clients"
	"github.com/jsamuelsen/quotebox/internal/adapters/clients/acl"
	httpadapter "github.com/jsamuelsen/quotebox/internal/adapters/http"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

// fakeQuoteAPI serves canned quote bodies in order, repeating the last one.
// A failing API answers 503 to everything.
type fakeQuoteAPI struct {
	server *httptest.Server

	mu      sync.Mutex
	bodies  []string
	failing bool
	calls   atomic.Int32
	headers http.Header
}

func newFakeQuoteAPI() *fakeQuoteAPI {
	api := &fakeQuoteAPI{}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))

	return api
}

func (a *fakeQuoteAPI) serve(w http.ResponseWriter, r *http.Request) {
	a.calls.Add(1)

	a.mu.Lock()
	a.headers = r.Header.Clone()
	failing := a.failing
	var body string
	if len(a.bodies) > 0 {
		body = a.bodies[0]
		if len(a.bodies) > 1 {
			a.bodies = a.bodies[1:]
		}
	}
	a.mu.Unlock()

	if failing || body == "" {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"quote API down"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (a *fakeQuoteAPI) respond(bodies ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bodies = bodies
	a.failing = false
}

func (a *fakeQuoteAPI) fail() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failing = true
}

func (a *fakeQuoteAPI) lastHeader(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.headers.Get(name)
}

func (a *fakeQuoteAPI) Close() {
	a.server.Close()
}

func quoteBody(text, author string) string {
	return `{"id":1,"quote":"` + text + `","author":"` + author + `"}`
}

// stack is the application wired the way the serve command wires it, with
// files in a temp directory and the quote API faked.
type stack struct {
	api      *fakeQuoteAPI
	client   *clients.Client
	quotes   *app.QuoteService
	settings *app.SettingsService
	schedule *app.ScheduleService
	engine   *gin.Engine
}

type stackOptions struct {
	Dir         string
	MaxFailures int
	Windows     []domain.TimeWindow
	Now         func() time.Time
}

func newStack(opts stackOptions) (*stack, error) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if opts.MaxFailures == 0 {
		opts.MaxFailures = 100
	}
	if opts.Windows == nil {
		opts.Windows = []domain.TimeWindow{{Name: "allday", Hours: 24}}
	}

	api := newFakeQuoteAPI()

	client, err := clients.New(&clients.Config{
		BaseURL:     api.server.URL,
		ServiceName: "quote-api",
		Timeout:     2 * time.Second,
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   opts.MaxFailures,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     time.Minute,
		},
		Logger: logger,
	})
	if err != nil {
		api.Close()
		return nil, err
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: logger})
	settingsStore := storage.NewSettingsStore(filepath.Join(opts.Dir, config.DefaultSettingsFile), logger)
	trackerStore := storage.NewTrackerStore(filepath.Join(opts.Dir, config.DefaultTrackerFile), logger)

	s := &stack{
		api:    api,
		client: client,
		quotes: app.NewQuoteService(app.QuoteServiceConfig{QuoteClient: quoteClient, Logger: logger}),
		settings: app.NewSettingsService(app.SettingsServiceConfig{
			Repository: settingsStore,
			Logger:     logger,
		}),
		schedule: app.NewScheduleService(app.ScheduleServiceConfig{
			Tracker: trackerStore,
			Windows: opts.Windows,
			Now:     opts.Now,
			Logger:  logger,
		}),
		engine: gin.New(),
	}

	registry := ports.NewHealthRegistry()
	_ = registry.Register(settingsStore)
	_ = registry.Register(trackerStore)
	_ = registry.RegisterOptional(quoteClient)

	httpadapter.SetupRouter(s.engine, httpadapter.RouterConfig{
		ServiceName: "quotebox",
		Timeout:     5 * time.Second,
		Health:      handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc123", "now"), nil),
		Quote:       handlers.NewQuoteHandler(s.quotes, s.settings),
		Settings:    handlers.NewSettingsHandler(s.settings),
		Schedule:    handlers.NewScheduleHandler(s.schedule),
	})

	return s, nil
}

func (s *stack) Close() {
	s.api.Close()
}
