package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// integration pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge

	// Fetch metrics.
	TablesFetched  *prometheus.CounterVec   // labels: source, outcome={success,error}
	FetchDuration  *prometheus.HistogramVec // labels: source
	SourceFailures *prometheus.CounterVec   // labels: source

	// Extraction metrics.
	RowsFetched *prometheus.CounterVec // labels: source
	RowsSkipped *prometheus.CounterVec // labels: source, reason

	// Merge metrics.
	FieldsReal        *prometheus.CounterVec // labels: source
	FieldsSynthesized prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "regionpulse",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is active, 0 otherwise.",
		}),
		TablesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "tables_fetched_total",
			Help:      "Table fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regionpulse",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a complete table fetch including paging and retries.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "source_failures_total",
			Help:      "Tables degraded to zero rows after fetch or format failure.",
		}, []string{"source"}),
		RowsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "rows_fetched_total",
			Help:      "Raw rows received from each source.",
		}, []string{"source"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "rows_skipped_total",
			Help:      "Rows that contributed no value, by skip reason.",
		}, []string{"source", "reason"}),
		FieldsReal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "fields_real_total",
			Help:      "Merged field slots filled from a real source, by winning source.",
		}, []string{"source"}),
		FieldsSynthesized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "regionpulse",
			Name:      "fields_synthesized_total",
			Help:      "Merged field slots filled by the synthesizer.",
		}),
	}

	prometheus.MustRegister(
		m.PipelineRunning,
		m.TablesFetched,
		m.FetchDuration,
		m.SourceFailures,
		m.RowsFetched,
		m.RowsSkipped,
		m.FieldsReal,
		m.FieldsSynthesized,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "regionpulse", Name: "pipeline_running"}),
		TablesFetched:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "regionpulse", Name: "tables_fetched_total"}, []string{"source", "outcome"}),
		FetchDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "regionpulse", Name: "fetch_duration_seconds"}, []string{"source"}),
		SourceFailures:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "regionpulse", Name: "source_failures_total"}, []string{"source"}),
		RowsFetched:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "regionpulse", Name: "rows_fetched_total"}, []string{"source"}),
		RowsSkipped:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "regionpulse", Name: "rows_skipped_total"}, []string{"source", "reason"}),
		FieldsReal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "regionpulse", Name: "fields_real_total"}, []string{"source"}),
		FieldsSynthesized: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "regionpulse", Name: "fields_synthesized_total"}),
	}
}
