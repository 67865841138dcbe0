package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments used across services.
type Metrics struct {
	ReservationsCreated prometheus.Counter
	CustomersResolved   prometheus.Counter
	DigestRuns          prometheus.Counter
	ErrorsCount         *prometheus.CounterVec
}

// New registers and returns the service metrics under the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		ReservationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "The total number of reservations created",
		}),
		CustomersResolved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customers_resolved_total",
			Help:      "The total number of customer resolve-or-create calls",
		}),
		DigestRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_runs_total",
			Help:      "The total number of digest aggregation runs",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors by operation",
		}, []string{"operation"}),
	}
}
