package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records metadata for event-table fetches from the analytics
// sources.
type IngestMetrics struct {
	duration    *prometheus.HistogramVec
	rows        *prometheus.CounterVec
	pages       *prometheus.CounterVec
	truncations *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

// NewIngestMetrics registers the ingestion metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingest_fetch_duration_seconds",
		Help:    "Duration of event-table fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_total",
		Help: "Event rows returned by the analytics source.",
	}, []string{"source"})
	pages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_pages_total",
		Help: "Report pages fetched from the analytics source.",
	}, []string{"source"})
	truncations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_truncations_total",
		Help: "Fetches that hit the configured row or page ceiling.",
	}, []string{"source"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_cache_hits_total",
		Help: "Event-table loads served from cache.",
	}, []string{"source"})
	cacheMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_cache_misses_total",
		Help: "Event-table loads that required a source fetch.",
	}, []string{"source"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_failures_total",
		Help: "Failed event-table fetches.",
	}, []string{"source"})
	reg.MustRegister(duration, rows, pages, truncations, cacheHits, cacheMisses, failures)
	return &IngestMetrics{
		duration:    duration,
		rows:        rows,
		pages:       pages,
		truncations: truncations,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		failures:    failures,
	}
}

// ObserveFetch records one completed fetch.
func (m *IngestMetrics) ObserveFetch(source string, duration time.Duration, rows, pages int, truncated bool) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(source)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.rows.WithLabelValues(label).Add(float64(rows))
	m.pages.WithLabelValues(label).Add(float64(pages))
	if truncated {
		m.truncations.WithLabelValues(label).Inc()
	}
}

// IncCacheHit increments the cache hit counter for the source.
func (m *IngestMetrics) IncCacheHit(source string) {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncCacheMiss increments the cache miss counter for the source.
func (m *IngestMetrics) IncCacheMiss(source string) {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncFailure increments the failure counter for the source.
func (m *IngestMetrics) IncFailure(source string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
