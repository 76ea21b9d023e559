package monitoring

import (
	"time"

	"kitchenops/internal/shortage"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes prometheus collectors for the shortage checker. It
// implements shortage.Recorder.
type Metrics struct {
	checksTotal    *prometheus.CounterVec
	checkDuration  prometheus.Histogram
	shortagesTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_checks_total",
			Help: "Completed inventory checks by overall status and type.",
		}, []string{"overall_status", "check_type"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "inventory_check_duration_seconds",
			Help:    "Wall time of a full inventory check run.",
			Buckets: prometheus.DefBuckets,
		}),
		shortagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingredient_shortages_total",
			Help: "Surfaced ingredient shortages by status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.checksTotal, m.checkDuration, m.shortagesTotal)
	return m
}

// ObserveCheck records one completed check run.
func (m *Metrics) ObserveCheck(result *shortage.CheckResult, took time.Duration) {
	m.checksTotal.WithLabelValues(string(result.OverallStatus), string(result.CheckType)).Inc()
	m.checkDuration.Observe(took.Seconds())
	for _, sh := range result.Shortages {
		m.shortagesTotal.WithLabelValues(string(sh.Status)).Inc()
	}
}
