package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

// HeaderCorrelationID is the header name for correlation ID.
// A front-end may reuse one correlation ID across a quote fetch and the
// settings writes that follow it.
const HeaderCorrelationID = "X-Correlation-ID"

// CorrelationID returns middleware that propagates or originates a
// correlation ID, the same way RequestID does.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		enrichers: []func(context.Context, string) context.Context{
			logging.WithCorrelationID,
			func(ctx context.Context, id string) context.Context {
				return WithTrace(ctx, Trace{CorrelationID: id})
			},
		},
	})
}
