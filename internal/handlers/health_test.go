package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bl-extractor/internal/cache"
)

type brokenStats struct{}

func (brokenStats) GetStats() (cache.CacheStats, error) {
	return cache.CacheStats{}, errors.New("stats unavailable")
}

func TestHealthCheck(t *testing.T) {
	t.Run("HealthyDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		manager := cache.NewManager(db.ParseCache, false, time.Minute, nil)
		defer manager.Close()

		w := httptest.NewRecorder()
		NewHealthHandler(db, manager).HealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "ok", response.Database)
		require.NotNil(t, response.Cache)
		assert.False(t, response.Cache.Disabled)
	})

	t.Run("CacheStatsFailureIsNotFatal", func(t *testing.T) {
		db := setupTestDB(t)

		w := httptest.NewRecorder()
		NewHealthHandler(db, brokenStats{}).HealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Nil(t, response.Cache)
	})

	t.Run("UnhealthyDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		w := httptest.NewRecorder()
		NewHealthHandler(db, nil).HealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "unhealthy", response.Status)
		assert.Equal(t, "error", response.Database)
		assert.NotEmpty(t, response.Message)
	})
}
