// Package metrics exposes Prometheus instruments for ledger traffic.
//
// A Collector owns a private registry so that several collectors can live in
// the same process, which tests rely on. All methods accept a nil receiver
// and do nothing, so components can be built without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes of a ledger call
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

// Collector holds the Prometheus metrics of the application.
type Collector struct {
	registry *prometheus.Registry

	LedgerCalls    *prometheus.CounterVec
	LedgerDuration *prometheus.HistogramVec
	PollAttempts   *prometheus.CounterVec
	Published      *prometheus.CounterVec
	BreakerState   *prometheus.GaugeVec
}

// NewCollector creates a collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		LedgerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_calls_total",
				Help:      "Total number of ledger calls",
			},
			[]string{"operation", "outcome"},
		),
		LedgerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_call_duration_seconds",
				Help:      "Ledger call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PollAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_attempts_total",
				Help:      "Total number of status polls",
			},
			[]string{"check"},
		),
		Published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_published_total",
				Help:      "Total number of records created and transferred",
			},
			[]string{"kind"},
		),
		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	registry.MustRegister(
		c.LedgerCalls,
		c.LedgerDuration,
		c.PollAttempts,
		c.Published,
		c.BreakerState,
	)

	return c
}

// Handler serves the metrics of the collector.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveLedgerCall records one ledger round trip.
func (c *Collector) ObserveLedgerCall(operation, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.LedgerCalls.WithLabelValues(operation, outcome).Inc()
	c.LedgerDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncPoll counts one poll of the given check.
func (c *Collector) IncPoll(check string) {
	if c == nil {
		return
	}
	c.PollAttempts.WithLabelValues(check).Inc()
}

// IncPublished counts one published record of the given kind.
func (c *Collector) IncPublished(kind string) {
	if c == nil {
		return
	}
	c.Published.WithLabelValues(kind).Inc()
}

// SetBreakerState records the state of a circuit breaker.
func (c *Collector) SetBreakerState(name string, state float64) {
	if c == nil {
		return
	}
	c.BreakerState.WithLabelValues(name).Set(state)
}
