package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statementsOnce sync.Once              //nolint:gochecknoglobals
	statements     *prometheus.CounterVec //nolint:gochecknoglobals

	droppedEvents = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "log_events_dropped_total",
			Help: "Log events that could not be written.",
		},
	)
)

// levelCounter counts log statements per level. Init may run more than once;
// the counter vec is registered once with the first service name.
type levelCounter struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h levelCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

func newLevelCounter(service string) levelCounter {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements of the frontend, differentiated by log level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"level"},
		)
	})

	return levelCounter{counter: statements}
}
