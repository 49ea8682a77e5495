package middleware

import (
	"context"
	"net/http"
)

// Trace holds the IDs that tie a quote API call back to the HTTP request or
// CLI run that caused it.
type Trace struct {
	RequestID     string
	CorrelationID string
}

type traceKey struct{}

// TraceFromContext returns the trace stored in ctx, or a zero Trace.
func TraceFromContext(ctx context.Context) Trace {
	if ctx == nil {
		return Trace{}
	}

	t, _ := ctx.Value(traceKey{}).(Trace)

	return t
}

// WithTrace stores t in ctx. An empty field keeps the value already there,
// so the request and correlation middleware can each set their own half.
func WithTrace(ctx context.Context, t Trace) context.Context {
	cur := TraceFromContext(ctx)
	if t.RequestID != "" {
		cur.RequestID = t.RequestID
	}
	if t.CorrelationID != "" {
		cur.CorrelationID = t.CorrelationID
	}

	return context.WithValue(ctx, traceKey{}, cur)
}

// SetHeaders copies the non-empty IDs onto outbound request headers.
func (t Trace) SetHeaders(h http.Header) {
	if t.RequestID != "" {
		h.Set(HeaderRequestID, t.RequestID)
	}
	if t.CorrelationID != "" {
		h.Set(HeaderCorrelationID, t.CorrelationID)
	}
}
