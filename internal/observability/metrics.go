package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vrn"

// Metrics holds the Prometheus collectors for the registry service.
type Metrics struct {
	// Provider source metrics.
	SourceFetches       *prometheus.CounterVec // labels: outcome={success,error,misconfigured}
	SourceFetchDuration prometheus.Histogram
	RecordsFetched      prometheus.Counter
	RecordsDropped      prometheus.Counter
	ProvidersLoaded     prometheus.Gauge

	// Search metrics.
	Searches      prometheus.Counter
	SearchResults prometheus.Histogram

	// Sign-up metrics.
	Signups *prometheus.CounterVec // labels: role, outcome={accepted,rejected,sink_error}

	// Content metrics.
	ContentReloads *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Provider record fetches by outcome.",
		}, []string{"outcome"}),
		SourceFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of a provider record fetch, including failures.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_fetched_total",
			Help:      "Raw records received from the record store.",
		}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_dropped_total",
			Help:      "Raw records dropped during normalization for lack of a name.",
		}),
		ProvidersLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "providers_loaded",
			Help:      "Providers in the current in-memory snapshot.",
		}),
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Submitted searches.",
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of providers returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Sign-up submissions by role and outcome.",
		}, []string{"role", "outcome"}),
		ContentReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Page content reloads by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SourceFetches,
		m.SourceFetchDuration,
		m.RecordsFetched,
		m.RecordsDropped,
		m.ProvidersLoaded,
		m.Searches,
		m.SearchResults,
		m.Signups,
		m.ContentReloads,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
