package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromTrace  func(Trace) string
	}{
		{"request id", RequestID(), HeaderRequestID, func(tr Trace) string { return tr.RequestID }},
		{"correlation id", CorrelationID(), HeaderCorrelationID, func(tr Trace) string { return tr.CorrelationID }},
	}

	for _, tt := range tests {
		t.Run(tt.name+" passes through", func(t *testing.T) {
			var got string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/", func(c *gin.Context) { got = tt.fromTrace(TraceFromContext(c.Request.Context())) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, "upstream-123")
			router.ServeHTTP(w, req)

			assert.Equal(t, "upstream-123", got)
			assert.Equal(t, "upstream-123", w.Header().Get(tt.header))
		})

		t.Run(tt.name+" generated", func(t *testing.T) {
			var got string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/", func(c *gin.Context) { got = tt.fromTrace(TraceFromContext(c.Request.Context())) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			_, err := uuid.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, got, w.Header().Get(tt.header))
		})
	}
}

func TestIDMiddleware_BothHalvesKept(t *testing.T) {
	var got Trace

	router := gin.New()
	router.Use(RequestID(), CorrelationID())
	router.GET("/", func(c *gin.Context) { got = TraceFromContext(c.Request.Context()) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, Trace{RequestID: "req-1", CorrelationID: "corr-1"}, got)
}

func TestRequestID_EnrichesLogger(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(func(c *gin.Context) {
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
	}, RequestID())
	router.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestTrace(t *testing.T) {
	assert.Equal(t, Trace{}, TraceFromContext(context.Background()))
	assert.Equal(t, Trace{}, TraceFromContext(nil)) //nolint:staticcheck // nil guard

	ctx := WithTrace(context.Background(), Trace{RequestID: "run-7"})
	ctx = WithTrace(ctx, Trace{CorrelationID: "corr-7"})
	assert.Equal(t, Trace{RequestID: "run-7", CorrelationID: "corr-7"}, TraceFromContext(ctx))

	h := http.Header{}
	Trace{RequestID: "run-7"}.SetHeaders(h)
	assert.Equal(t, "run-7", h.Get(HeaderRequestID))
	assert.Empty(t, h.Values(HeaderCorrelationID))
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		logged bool
		level  string
	}{
		{"api success", "/api/v1/quote?category=all", http.StatusOK, true, "INFO"},
		{"client error", "/api/v1/settings", http.StatusBadRequest, true, "WARN"},
		{"server error", "/api/v1/schedule", http.StatusInternalServerError, true, "ERROR"},
		{"health skipped", "/-/live", http.StatusOK, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
			}, Logging())
			router.NoRoute(func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.logged {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
			assert.InDelta(t, tt.status, entry["status"], 0)
		})
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestTimeout(t *testing.T) {
	t.Run("sets deadline", func(t *testing.T) {
		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Second))
		router.GET("/", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, hasDeadline)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("silent handler gets 504", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrorCodeTimeout)
	})

	t.Run("written response is kept", func(t *testing.T) {
		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.String(http.StatusOK, "fallback")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "fallback", w.Body.String())
	})
}
