package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/anime-digest/internal/adapters/http/handlers"
	"github.com/jsamuelsen/anime-digest/internal/adapters/http/middleware"
	"github.com/jsamuelsen/anime-digest/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds /api/v1 requests when no timeout is configured.
// A preview fetches one detail per entry, so it is generous.
const DefaultRequestTimeout = 60 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	// HealthHandler serves /-/ probes and metrics. Optional.
	HealthHandler *handlers.HealthHandler

	// DigestHandler serves /api/v1/digest. Optional.
	DigestHandler *handlers.DigestHandler

	// Timeout is the deadline for /api/v1 requests. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and request metrics
//  5. Logging (skips /-/ endpoints)
//
// Route groups:
//   - /-/     probes, build info and metrics, no timeout
//   - /api/v1 digest preview and manual runs, with request timeout
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(middleware.Recovery(logger), middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.DigestHandler != nil {
		cfg.DigestHandler.RegisterRoutes(apiV1)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default request timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	serviceName string,
	healthHandler *handlers.HealthHandler,
	digestHandler *handlers.DigestHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		ServiceName:   serviceName,
		HealthHandler: healthHandler,
		DigestHandler: digestHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
