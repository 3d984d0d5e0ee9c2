package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizanhq/mizan-api/pkg/middleware"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.CORS())
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		r.Use(middleware.RateLimit(
			float64(deps.Config.Server.RateLimitPerSecond),
			deps.Config.Server.RateLimitBurst,
		))
	}
	r.Use(middleware.Metrics)

	deps.AnalyzeHandler.RegisterRoutes(r)

	deps.Logger.Info("routes configured")
	return r
}
