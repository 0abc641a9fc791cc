package guard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisionsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "guard_decisions_total",
			Help: "Navigation decisions, differentiated by context and action.",
		},
		[]string{"context", "action"},
	)

	refreshTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "guard_refresh_total",
			Help: "Silent refresh attempts, differentiated by result.",
		},
		[]string{"result"},
	)

	refreshDuration = promauto.NewHistogram( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "guard_refresh_duration_seconds",
			Help:    "Round-trip time of silent refresh calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Observe counts a decision. Callers that evaluate Decide directly use it too.
func Observe(c Context, d Decision) {
	decisionsTotal.WithLabelValues(c.String(), d.Action.String()).Inc()
}
