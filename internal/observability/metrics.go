package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solar_yield"

// Metrics holds the Prometheus counters, histograms, and gauges for the estimator.
type Metrics struct {
	EstimatesTotal   *prometheus.CounterVec // labels: outcome={success,invalid,error}
	ValidationErrors *prometheus.CounterVec // labels: field
	EstimateDuration prometheus.Histogram
	SpecificYield    prometheus.Histogram

	// Meteorology provider metrics.
	MeteorologyRequests    *prometheus.CounterVec // labels: outcome={success,error}
	MeteorologyFallbacks   prometheus.Counter
	MeteorologyCache       *prometheus.CounterVec // labels: result={hit,miss}
	MeteorologyAPIDuration prometheus.Histogram
	MeteorologyRemote      prometheus.Gauge

	// Report publishing metrics.
	ReportsPublished    prometheus.Counter
	ReportPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all estimator metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EstimatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimates_total",
			Help:      "Yield estimates by outcome.",
		}, []string{"outcome"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected requests by the first failing parameter.",
		}, []string{"field"}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimate_duration_seconds",
			Help:      "Duration of a complete estimate including the meteorology fetch.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		SpecificYield: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "specific_yield_kwh_per_kwp",
			Help:      "Distribution of estimated annual specific yield.",
			Buckets:   []float64{50, 100, 200, 300, 400, 600, 800, 1200, 1600, 2000},
		}),
		MeteorologyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meteorology_requests_total",
			Help:      "Remote meteorology requests by outcome.",
		}, []string{"outcome"}),
		MeteorologyFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meteorology_fallbacks_total",
			Help:      "Estimates that substituted the analytic model after a provider failure.",
		}),
		MeteorologyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meteorology_cache_total",
			Help:      "Meteorology cache lookups by result.",
		}, []string{"result"}),
		MeteorologyAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "meteorology_api_duration_seconds",
			Help:      "NASA POWER API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		MeteorologyRemote: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "meteorology_remote_enabled",
			Help:      "1 when the remote meteorology provider is enabled, 0 otherwise.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Estimate reports written to the report topic.",
		}),
		ReportPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_publish_errors_total",
			Help:      "Failed report publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.EstimatesTotal,
		m.ValidationErrors,
		m.EstimateDuration,
		m.SpecificYield,
		m.MeteorologyRequests,
		m.MeteorologyFallbacks,
		m.MeteorologyCache,
		m.MeteorologyAPIDuration,
		m.MeteorologyRemote,
		m.ReportsPublished,
		m.ReportPublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EstimatesTotal:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "estimates_total"}, []string{"outcome"}),
		ValidationErrors:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "validation_errors_total"}, []string{"field"}),
		EstimateDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "estimate_duration_seconds"}),
		SpecificYield:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "specific_yield_kwh_per_kwp"}),
		MeteorologyRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "meteorology_requests_total"}, []string{"outcome"}),
		MeteorologyFallbacks:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "meteorology_fallbacks_total"}),
		MeteorologyCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "meteorology_cache_total"}, []string{"result"}),
		MeteorologyAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "meteorology_api_duration_seconds"}),
		MeteorologyRemote:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "meteorology_remote_enabled"}),
		ReportsPublished:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "reports_published_total"}),
		ReportPublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "report_publish_errors_total"}),
	}
}
