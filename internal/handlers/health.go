package handlers

import (
	"context"
	"net/http"

	"bl-extractor/internal/cache"
)

// Pinger reports database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheStatter reports parse cache statistics
type CacheStatter interface {
	GetStats() (cache.CacheStats, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db    Pinger
	cache CacheStatter
}

// NewHealthHandler creates a new health handler; cache may be nil
func NewHealthHandler(db Pinger, cache CacheStatter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Message  string            `json:"message,omitempty"`
	Cache    *cache.CacheStats `json:"cache,omitempty"`
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "healthy",
		Database: "ok",
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		response.Status = "unhealthy"
		response.Database = "error"
		response.Message = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	if h.cache != nil {
		// Stats are informational; a failure doesn't make the service unhealthy
		if stats, err := h.cache.GetStats(); err == nil {
			response.Cache = &stats
		}
	}

	writeJSON(w, http.StatusOK, response)
}
