package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/middleware"
	"sopulse/internal/services"
)

// RouterConfig bundles the dependencies of the HTTP surface
type RouterConfig struct {
	Service        *services.AnalyticsService
	Dataset        *dataset.Dataset
	ServerConfig   config.ServerConfig
	Logger         *slog.Logger
	MetricsHandler http.Handler // Prometheus exposition, optional
}

// NewRouter assembles the chi router with the full middleware chain
// and every API route.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(middleware.Compress(5))

	rateLimiter := middleware.NewRateLimiter(cfg.ServerConfig.RateLimitRPS, cfg.ServerConfig.RateLimitBurst, cfg.Logger)
	r.Use(rateLimiter.Handler)

	NewHealthHandler(cfg.Dataset, cfg.Logger).RegisterRoutes(r)

	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		NewAnalyticsHandler(cfg.Service, cfg.Logger).RegisterRoutes(api)
	})

	return r
}
