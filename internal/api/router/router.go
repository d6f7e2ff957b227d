// Package router assembles the HTTP surface: the webchat endpoints, the
// health check, and Prometheus metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ninjas3242/truck-bot/internal/api"
	httpmiddleware "github.com/ninjas3242/truck-bot/internal/http/middleware"
	"github.com/ninjas3242/truck-bot/internal/webchat"
	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// Config holds router dependencies.
type Config struct {
	Logger         *logging.Logger
	Webchat        *webchat.Handler
	Health         *api.HealthHandler
	Search         *api.SearchHandler
	MetricsHandler http.Handler
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	if cfg.Health != nil {
		r.Method(http.MethodGet, "/health", cfg.Health)
	}
	if cfg.Search != nil {
		r.Method(http.MethodGet, "/search", cfg.Search)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webchat != nil {
		r.Route("/webchat", func(r chi.Router) {
			r.Get("/ws", cfg.Webchat.HandleWebSocket)
			r.Post("/message", cfg.Webchat.HandleMessage)
			r.Get("/history", cfg.Webchat.HandleHistory)
		})
	}

	return r
}
