package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// acquisition pipeline.
type Metrics struct {
	PagesFetched   prometheus.Counter
	RecordsFetched prometheus.Counter
	FetchErrors    prometheus.Counter

	// Cache layer metrics, labelled by dataset identifier.
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	ArchiveDownloadDuration prometheus.Histogram
	LoadDuration            *prometheus.HistogramVec // labels: dataset

	SessionsPublished prometheus.Counter
	FetchRunning      prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PagesFetched,
		m.RecordsFetched,
		m.FetchErrors,
		m.CacheHits,
		m.CacheMisses,
		m.ArchiveDownloadDuration,
		m.LoadDuration,
		m.SessionsPublished,
		m.FetchRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// construct fresh instances without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "pages_fetched_total",
			Help:      "Total pages retrieved from the ACN sessions API.",
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "records_fetched_total",
			Help:      "Total session records retrieved from the ACN sessions API.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "fetch_errors_total",
			Help:      "Total failed upstream requests.",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "cache_hits_total",
			Help:      "Loads served from the formatted on-disk cache.",
		}, []string{"dataset"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "cache_misses_total",
			Help:      "Loads that required fetching from the upstream source.",
		}, []string{"dataset"}),
		ArchiveDownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ev_ingest",
			Name:      "archive_download_duration_seconds",
			Help:      "Duration of ZIP archive download and extraction.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ev_ingest",
			Name:      "load_duration_seconds",
			Help:      "End-to-end duration of a dataset load, including validation.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"dataset"}),
		SessionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_ingest",
			Name:      "sessions_published_total",
			Help:      "Canonical sessions published to the Kafka sink topic.",
		}),
		FetchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ev_ingest",
			Name:      "fetch_running",
			Help:      "1 while an upstream fetch is in progress, 0 otherwise.",
		}),
	}
}
