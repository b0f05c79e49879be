// Package metrics defines the Prometheus collectors exported by the server.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dutchpay"

// Metrics holds every collector.
type Metrics struct {
	rpcRequests          *prometheus.CounterVec
	rpcDuration          *prometheus.HistogramVec
	ledgerMutations      *prometheus.CounterVec
	recomputes           prometheus.Counter
	recomputeDuration    prometheus.Histogram
	obligationsGenerated prometheus.Histogram
	completions          prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rpcRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ledgerMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Committed ledger mutations by operation.",
		}, []string{"operation"}),
		recomputes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obligation_recomputes_total",
			Help:      "Obligation set regenerations.",
		}),
		recomputeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "obligation_recompute_duration_seconds",
			Help:      "Time spent regenerating a group's obligation set.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		obligationsGenerated: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "obligations_per_recompute",
			Help:      "Open obligations produced by one regeneration.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		completions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obligations_completed_total",
			Help:      "Obligations marked completed.",
		}),
	}
}

// ObserveRPC records one RPC call.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(d.Seconds())
}

// LedgerMutation records a committed ledger mutation.
func (m *Metrics) LedgerMutation(operation string) {
	if m == nil {
		return
	}
	m.ledgerMutations.WithLabelValues(operation).Inc()
}

// Recomputed records one obligation regeneration.
func (m *Metrics) Recomputed(open int, d time.Duration) {
	if m == nil {
		return
	}
	m.recomputes.Inc()
	m.recomputeDuration.Observe(d.Seconds())
	m.obligationsGenerated.Observe(float64(open))
}

// Completed records an obligation completion.
func (m *Metrics) Completed() {
	if m == nil {
		return
	}
	m.completions.Inc()
}
