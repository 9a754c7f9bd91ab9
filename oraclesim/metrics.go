package oraclesim

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the per-server collectors; each Server owns a registry so
// several servers can live in one process.
type metrics struct {
	registry *prometheus.Registry

	selects  *prometheus.CounterVec
	plans    prometheus.Counter
	doors    prometheus.Histogram
	guesses  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		// selects counts problem selections by problem name
		selects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aedificium_select_total",
			Help: "Problem selections by problem",
		}, []string{"problem"}),
		plans: f.NewCounter(prometheus.CounterOpts{
			Name: "aedificium_explore_plans_total",
			Help: "Plans walked by /explore",
		}),
		// doors tracks plan lengths
		doors: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "aedificium_explore_plan_doors",
			Help:    "Doors per explored plan",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		guesses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aedificium_guess_total",
			Help: "Guesses by verdict",
		}, []string{"verdict"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aedificium_request_errors_total",
			Help: "Rejected requests by route",
		}, []string{"route"}),
	}
}
