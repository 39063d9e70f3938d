package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// enrichment pipeline.
type Metrics struct {
	ObservationsConsumed prometheus.Counter
	ObservationsEnriched prometheus.Counter
	EnrichmentFailures   prometheus.Counter
	StoreFailures        prometheus.Counter
	PipelineRunning      prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// History and anomaly metrics.
	HistoryFetchFailures prometheus.Counter
	HistoryFetchDuration prometheus.Histogram
	AnomaliesDetected    *prometheus.CounterVec // label: category

	// Alert dispatch metrics.
	AlertsPublished      prometheus.Counter
	AlertPublishFailures prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObservationsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "observations_consumed_total",
			Help:      "Total observations read from the source topic.",
		}),
		ObservationsEnriched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "observations_enriched_total",
			Help:      "Total observations enriched and persisted.",
		}),
		EnrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "enrichment_failures_total",
			Help:      "Total observations skipped because parsing or enrichment failed.",
		}),
		StoreFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "store_failures_total",
			Help:      "Total enriched observations that could not be persisted.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "batch_size",
			Help:      "Number of observations per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-enrich-store cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		HistoryFetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "history_fetch_failures_total",
			Help:      "Total history fetches that failed, degrading anomaly detection to bounds checks.",
		}),
		HistoryFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_etl",
			Name:      "history_fetch_duration_seconds",
			Help:      "History store query duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		AnomaliesDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "anomalies_detected_total",
			Help:      "Anomalous observations by alert category.",
		}, []string{"category"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "alerts_published_total",
			Help:      "Total alert messages handed to the dispatch collaborator.",
		}),
		AlertPublishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_etl",
			Name:      "alert_publish_failures_total",
			Help:      "Total alert messages that could not be dispatched.",
		}),
	}

	prometheus.MustRegister(
		m.ObservationsConsumed,
		m.ObservationsEnriched,
		m.EnrichmentFailures,
		m.StoreFailures,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.HistoryFetchFailures,
		m.HistoryFetchDuration,
		m.AnomaliesDetected,
		m.AlertsPublished,
		m.AlertPublishFailures,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObservationsConsumed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "observations_consumed_total"}),
		ObservationsEnriched:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "observations_enriched_total"}),
		EnrichmentFailures:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "enrichment_failures_total"}),
		StoreFailures:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "store_failures_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_etl", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_etl", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_etl", Name: "batch_processing_duration_seconds"}),
		HistoryFetchFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "history_fetch_failures_total"}),
		HistoryFetchDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_etl", Name: "history_fetch_duration_seconds"}),
		AnomaliesDetected:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_etl", Name: "anomalies_detected_total"}, []string{"category"}),
		AlertsPublished:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "alerts_published_total"}),
		AlertPublishFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_etl", Name: "alert_publish_failures_total"}),
	}
}
