package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blx"

// Extraction outcomes
const (
	OutcomeResolved  = "resolved"
	OutcomeAmbiguous = "ambiguous"
	OutcomeEmpty     = "empty"
	OutcomeSkipped   = "skipped"
)

var (
	candidateBuckets = []float64{0, 1, 2, 3, 5, 8, 13, 21, 34}
	durationBuckets  = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
)

// Metrics holds the service's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal *prometheus.CounterVec
	Candidates       prometheus.Histogram
	ParseDuration    *prometheus.HistogramVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	HTTPRequests     *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)

	m := &Metrics{
		registry: registry,
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "BL extraction attempts by outcome.",
		}, []string{"outcome"}),
		Candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidates",
			Help:      "Candidates surviving the gates per extraction.",
			Buckets:   candidateBuckets,
		}),
		ParseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing a document.",
			Buckets:   durationBuckets,
		}, []string{"source"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Parse cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Parse cache misses.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
	}

	registry.MustRegister(
		m.ExtractionsTotal,
		m.Candidates,
		m.ParseDuration,
		m.CacheHits,
		m.CacheMisses,
		m.HTTPRequests,
	)

	return m
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveExtraction records one extraction outcome and its candidate count.
// A nil receiver is a no-op so callers can run without metrics.
func (m *Metrics) ObserveExtraction(outcome string, candidates int) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSkipped {
		m.Candidates.Observe(float64(candidates))
	}
}

// ObserveParse records the duration of a parse from the given source
func (m *Metrics) ObserveParse(source string, start time.Time) {
	if m == nil {
		return
	}
	m.ParseDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// CacheLookup records a cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// ObserveRequest counts a served HTTP request
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
