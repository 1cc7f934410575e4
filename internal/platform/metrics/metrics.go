package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution outcomes recorded by IncResolution.
const (
	OutcomeStreams       = "streams"
	OutcomeNoSource      = "no_source"
	OutcomeNoManifest    = "no_manifest"
	OutcomeNoStreams     = "no_streams"
	OutcomeUpstreamError = "upstream_error"
)

// Metrics holds Prometheus counters and gauges for the source API.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	errorsTotal        prometheus.Counter
	resolutionsTotal   *prometheus.CounterVec
	upstreamFetchTotal *prometheus.CounterVec
	cacheLookupsTotal  *prometheus.CounterVec
	cacheEntries       prometheus.Gauge
}

// New creates and registers Prometheus metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anime_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "anime_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	resolutionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anime_resolutions_total",
		Help: "Episode source resolutions by how far the pipeline got",
	}, []string{"outcome"})
	upstreamFetchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anime_upstream_fetch_total",
		Help: "Outbound fetches by pipeline stage and result",
	}, []string{"stage", "result"})
	cacheLookupsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "anime_title_cache_lookups_total",
		Help: "Title cache lookups by result (hit or miss)",
	}, []string{"result"})
	cacheEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "anime_title_cache_entries",
		Help: "Number of titles currently held in the title cache",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		resolutionsTotal,
		upstreamFetchTotal,
		cacheLookupsTotal,
		cacheEntries,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		resolutionsTotal:   resolutionsTotal,
		upstreamFetchTotal: upstreamFetchTotal,
		cacheLookupsTotal:  cacheLookupsTotal,
		cacheEntries:       cacheEntries,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncResolution records the terminal outcome of one pipeline run.
func (m *Metrics) IncResolution(outcome string) {
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records one outbound fetch made by stage.
func (m *Metrics) ObserveFetch(stage string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.upstreamFetchTotal.WithLabelValues(stage, result).Inc()
}

// ObserveCacheLookup records a title cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookupsTotal.WithLabelValues(result).Inc()
}

// SetCacheEntries sets the title cache size gauge.
func (m *Metrics) SetCacheEntries(n int) {
	m.cacheEntries.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
