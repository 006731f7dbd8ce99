// Package server wires the HTTP API: routes, middleware and shutdown.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bl-extractor/internal/handlers"
	"bl-extractor/internal/metrics"
	"bl-extractor/internal/ratelimit"
)

// Dependencies are the collaborators the router serves. Metrics and
// Limiter may be nil.
type Dependencies struct {
	Parser      handlers.Parser
	Extractions handlers.ExtractionReader
	DB          handlers.Pinger
	Cache       handlers.CacheStatter
	Metrics     *metrics.Metrics
	Limiter     *ratelimit.Limiter
	Logger      *slog.Logger
}

// NewRouter builds the API handler with its middleware stack
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parse := handlers.NewParseHandler(deps.Parser, logger)
	extractions := handlers.NewExtractionsHandler(deps.Extractions, logger)
	health := handlers.NewHealthHandler(deps.DB, deps.Cache)

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/api/health", health.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(RateLimitMiddleware(deps.Limiter, logger))
			}
			r.Post("/parse/document", parse.ParseDocument)
			r.Post("/parse/text", parse.ParseText)
		})

		r.Get("/extractions", extractions.ListExtractions)
		r.Get("/extractions/{id}", extractions.GetExtraction)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return Chain(
		r,
		LoggingMiddleware(logger),
		RecoveryMiddleware(logger),
		MetricsMiddleware(deps.Metrics),
		CORSMiddleware,
		ContentTypeMiddleware,
		SecurityMiddleware,
	)
}
