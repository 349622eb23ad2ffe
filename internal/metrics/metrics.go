// Package metrics exposes Prometheus instrumentation for the sync engines.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultJoined  = "joined"
	ResultStale   = "stale"
)

// Recorder records sync-engine activity. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	operations *prometheus.CounterVec
	pending    *prometheus.GaugeVec
	stale      *prometheus.CounterVec
}

// New registers the sync metrics on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_sync_operations_total",
				Help: "Total number of wishlist and cart sync operations",
			},
			[]string{"engine", "op", "result"},
		),
		pending: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "storefront_sync_pending_operations",
				Help: "Remote sync operations currently in flight",
			},
			[]string{"engine"},
		),
		stale: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_stale_responses_total",
				Help: "Remote responses discarded because the identity changed",
			},
			[]string{"engine"},
		),
	}
}

// Operation counts one engine operation with its result.
func (r *Recorder) Operation(engine, op, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(engine, op, result).Inc()
}

// PendingInc marks a remote call as started.
func (r *Recorder) PendingInc(engine string) {
	if r == nil {
		return
	}
	r.pending.WithLabelValues(engine).Inc()
}

// PendingDec marks a remote call as finished.
func (r *Recorder) PendingDec(engine string) {
	if r == nil {
		return
	}
	r.pending.WithLabelValues(engine).Dec()
}

// Stale counts a discarded response.
func (r *Recorder) Stale(engine string) {
	if r == nil {
		return
	}
	r.stale.WithLabelValues(engine).Inc()
}

// ResultOf maps an error onto a result label.
func ResultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
