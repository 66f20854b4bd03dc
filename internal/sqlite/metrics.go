package sqlite

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// Mutation outcomes used as the "outcome" label.
const (
	outcomeOK        = "ok"
	outcomeRejected  = "rejected"
	outcomeInvariant = "invariant"
	outcomeFailed    = "failed"
)

// metrics holds the engine's collectors. They are always usable; they are
// only exported when a registerer was given.
type metrics struct {
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	retries   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "navtree_mutations_total",
			Help: "Write transactions by operation and outcome",
		}, []string{"op", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "navtree_mutation_duration_seconds",
			Help:    "Duration of write transactions including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"op"}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "navtree_tx_retries_total",
			Help: "Write transactions retried after losing a lock race",
		}, []string{"op"}),
	}
}

// observe records one finished write transaction.
func (m *metrics) observe(op string, start time.Time, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.mutations.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case types.IsUserError(err):
		return outcomeRejected
	case errors.Is(err, types.ErrInvariantViolated):
		return outcomeInvariant
	default:
		return outcomeFailed
	}
}
