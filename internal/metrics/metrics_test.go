package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveExtraction(t *testing.T) {
	m := New()

	m.ObserveExtraction(OutcomeResolved, 3)
	m.ObserveExtraction(OutcomeResolved, 1)
	m.ObserveExtraction(OutcomeAmbiguous, 2)
	m.ObserveExtraction(OutcomeSkipped, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(OutcomeResolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(OutcomeAmbiguous)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Candidates))
}

func TestMetrics_CacheLookup(t *testing.T) {
	m := New()

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheMisses))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveExtraction(OutcomeEmpty, 0)
		m.ObserveParse("text", time.Now())
		m.CacheLookup(true)
		m.ObserveRequest(http.MethodGet, http.StatusOK)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveExtraction(OutcomeEmpty, 0)
	m.ObserveParse("document", time.Now())
	m.ObserveRequest(http.MethodPost, http.StatusCreated)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `blx_extractions_total{outcome="empty"} 1`)
	assert.Contains(t, body, "blx_parse_duration_seconds")
	assert.Contains(t, body, `blx_http_requests_total{method="POST",status_code="201"} 1`)
}
