// Package middleware provides gin middleware for the quotebox API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/platform/logging"
)

// HeaderRequestID is the header name for request ID.
const HeaderRequestID = "X-Request-ID"

// RequestID returns middleware that extracts or generates a request ID.
// The ID is echoed in the response headers, added to the context logger
// and stored in the request Trace so outbound quote API calls carry it.
func RequestID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		enrichers: []func(context.Context, string) context.Context{
			logging.WithRequestID,
			func(ctx context.Context, id string) context.Context {
				return WithTrace(ctx, Trace{RequestID: id})
			},
		},
	})
}
