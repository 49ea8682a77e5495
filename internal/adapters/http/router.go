package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when no timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers and settings for the router.
type RouterConfig struct {
	// ServiceName names the otelgin tracer.
	ServiceName string

	// Timeout bounds /api/v1 requests. Zero disables it.
	Timeout time.Duration

	Health   *handlers.HealthHandler
	Quote    *handlers.QuoteHandler
	Settings *handlers.SettingsHandler
	Schedule *handlers.ScheduleHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. Logging (skips /-/)
//
// /-/ carries the health, build and metrics endpoints. /api/v1 carries the
// quote, settings and schedule endpoints with the request timeout.
// Nil handlers are not registered.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.Quote != nil {
		cfg.Quote.RegisterRoutes(apiV1)
	}
	if cfg.Settings != nil {
		cfg.Settings.RegisterRoutes(apiV1)
	}
	if cfg.Schedule != nil {
		cfg.Schedule.RegisterRoutes(apiV1)
	}
}
