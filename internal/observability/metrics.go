package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// monitoring pipeline.
type Metrics struct {
	EventsFetched   prometheus.Counter
	FetchErrors     prometheus.Counter
	Evaluations     prometheus.Counter
	ScoringFailures prometheus.Counter

	// Poll loop metrics.
	PollCycles        prometheus.Counter
	PollCycleDuration prometheus.Histogram
	PollerRunning     prometheus.Gauge

	// Latest-cycle summary gauges.
	ActiveAlerts prometheus.Gauge
	MaxMagnitude prometheus.Gauge

	ScoringAvailable   prometheus.Gauge
	PredictionRequests *prometheus.CounterVec // labels: outcome={ok,invalid,unavailable,error}
	AlertsPublished    prometheus.Counter
}

// NewMetrics creates and registers all monitor metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "events_fetched_total",
			Help:      "Total seismic events fetched from the catalog.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "fetch_errors_total",
			Help:      "Total catalog fetch failures (transport, HTTP, or parse).",
		}),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "evaluations_total",
			Help:      "Total events run through the risk pipeline.",
		}),
		ScoringFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "scoring_failures_total",
			Help:      "Total events dropped from a batch because scoring failed.",
		}),
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "poll_cycles_total",
			Help:      "Total completed fetch-evaluate-render cycles.",
		}),
		PollCycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tsunami_monitor",
			Name:      "poll_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-evaluate-render cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tsunami_monitor",
			Name:      "poller_running",
			Help:      "1 when the poll loop is active, 0 when idle or shut down.",
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tsunami_monitor",
			Name:      "active_alerts",
			Help:      "Number of assessments at or above the alert threshold in the latest cycle.",
		}),
		MaxMagnitude: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tsunami_monitor",
			Name:      "max_magnitude",
			Help:      "Largest magnitude seen in the latest cycle; 0 when the cycle was empty.",
		}),
		ScoringAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tsunami_monitor",
			Name:      "scoring_available",
			Help:      "1 when a model bundle is loaded, 0 when scoring is degraded.",
		}),
		PredictionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "prediction_requests_total",
			Help:      "Single-shot prediction requests by outcome.",
		}, []string{"outcome"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tsunami_monitor",
			Name:      "alerts_published_total",
			Help:      "Alert assessments published to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.EventsFetched,
		m.FetchErrors,
		m.Evaluations,
		m.ScoringFailures,
		m.PollCycles,
		m.PollCycleDuration,
		m.PollerRunning,
		m.ActiveAlerts,
		m.MaxMagnitude,
		m.ScoringAvailable,
		m.PredictionRequests,
		m.AlertsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsFetched:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "events_fetched_total"}),
		FetchErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "fetch_errors_total"}),
		Evaluations:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "evaluations_total"}),
		ScoringFailures:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "scoring_failures_total"}),
		PollCycles:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "poll_cycles_total"}),
		PollCycleDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tsunami_monitor", Name: "poll_cycle_duration_seconds"}),
		PollerRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tsunami_monitor", Name: "poller_running"}),
		ActiveAlerts:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tsunami_monitor", Name: "active_alerts"}),
		MaxMagnitude:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tsunami_monitor", Name: "max_magnitude"}),
		ScoringAvailable:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tsunami_monitor", Name: "scoring_available"}),
		PredictionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "prediction_requests_total"}, []string{"outcome"}),
		AlertsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tsunami_monitor", Name: "alerts_published_total"}),
	}
}
