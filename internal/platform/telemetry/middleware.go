package telemetry

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/quotebox/internal/platform/telemetry"

// HeaderTraceID carries the trace ID back to API callers.
const HeaderTraceID = "X-Trace-ID"

// probePrefix marks health and metrics routes, which are polled too often
// to be worth recording.
const probePrefix = "/-/"

// unmatchedRoute labels requests no route matched, keeping route
// cardinality bounded.
const unmatchedRoute = "unmatched"

// ServerMetrics holds the API request instruments.
type ServerMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

// NewServerMetrics creates the API request instruments on the global meter.
func NewServerMetrics() (*ServerMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"quotebox.http.server.duration",
		metric.WithDescription("API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter(
		"quotebox.http.server.requests",
		metric.WithDescription("API requests by route and status"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		"quotebox.http.server.in_flight",
		metric.WithDescription("API requests being served"),
	)
	if err != nil {
		return nil, err
	}

	return &ServerMetrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// Middleware returns Gin middleware that records API request metrics and
// sets the X-Trace-ID response header. Mount it after TracingMiddleware so
// the span exists. Probe routes under /-/ are not recorded.
func Middleware() gin.HandlerFunc {
	// a failed instrument only disables metrics
	metrics, err := NewServerMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, probePrefix) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			c.Header(HeaderTraceID, span.SpanContext().TraceID().String())
		}

		if metrics == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		base := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		)

		start := time.Now()
		metrics.inFlight.Add(ctx, 1, base)
		defer metrics.inFlight.Add(ctx, -1, base)

		c.Next()

		withStatus := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		metrics.duration.Record(ctx, time.Since(start).Seconds(), withStatus)
		metrics.requests.Add(ctx, 1, withStatus)
	}
}

// TracingMiddleware returns the otelgin tracing middleware.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
