// Package metrics exposes Prometheus collectors for fetching, parsing and
// serving reference pages.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch sources.
const (
	SourceRemote = "remote"
	SourceFile   = "file"
	SourceCache  = "cache"
)

var (
	fetchTotal                 *prometheus.CounterVec
	fetchBytesTotal            *prometheus.CounterVec
	fetchCacheHitsTotal        prometheus.Counter
	fetchRetriesTotal          prometheus.Counter
	pacingDelaySeconds         *prometheus.HistogramVec
	parseTotal                 *prometheus.CounterVec
	bulkInflight               prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors with the default registry.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bbref_fetch_total",
				Help: "Total number of page fetches, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bbref_fetch_bytes_total",
				Help: "Total number of bytes read, labeled by source.",
			},
			[]string{"source"},
		)

		fetchCacheHitsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bbref_fetch_cache_hits_total",
				Help: "Remote fetches answered from the page cache.",
			},
		)

		fetchRetriesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bbref_fetch_retries_total",
				Help: "Remote fetch attempts that were retried.",
			},
		)

		pacingDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bbref_pacing_delay_seconds",
				Help:    "Time spent waiting for a per-host request slot.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"host"},
		)

		parseTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bbref_parse_total",
				Help: "Pages parsed into records, labeled by entity and outcome.",
			},
			[]string{"entity", "outcome"},
		)

		bulkInflight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bbref_bulk_inflight",
				Help: "Player pipelines currently running in bulk retrieval.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeHost extracts a lowercase hostname from a URL.
// It returns "unknown" if the URL is invalid.
func SanitizeHost(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch counts one fetch and the bytes it returned.
func ObserveFetch(source, outcome string, bytesRead int) {
	Init()
	fetchTotal.WithLabelValues(source, outcome).Inc()
	if bytesRead > 0 {
		fetchBytesTotal.WithLabelValues(source).Add(float64(bytesRead))
	}
}

// ObserveCacheHit counts a remote fetch served from cache.
func ObserveCacheHit() {
	Init()
	fetchCacheHitsTotal.Inc()
}

// ObserveRetry counts a retried attempt.
func ObserveRetry() {
	Init()
	fetchRetriesTotal.Inc()
}

// ObservePacingDelay records the duration of a pacing wait.
func ObservePacingDelay(host string, duration time.Duration) {
	Init()
	pacingDelaySeconds.WithLabelValues(host).Observe(duration.Seconds())
}

// ObserveParse counts one page parse for entity.
func ObserveParse(entity string, err error) {
	Init()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	parseTotal.WithLabelValues(entity, outcome).Inc()
}

// IncBulkInflight increments the bulk pipeline gauge.
func IncBulkInflight() {
	Init()
	bulkInflight.Inc()
}

// DecBulkInflight decrements the bulk pipeline gauge.
func DecBulkInflight() {
	Init()
	bulkInflight.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
