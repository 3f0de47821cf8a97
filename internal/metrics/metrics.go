// Package metrics provides Prometheus collectors for traversal and RPC activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "threadscope"

// Level labels used by the traversal collectors.
const (
	LevelGroups  = "groups"
	LevelThreads = "threads"
)

// Metrics groups all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Snapshots counts completed snapshot enumerations.
	// Labels: level (groups, threads)
	Snapshots *prometheus.CounterVec

	// SnapshotRetries counts buffers discarded because they were filled to capacity.
	// Labels: level (groups, threads)
	SnapshotRetries *prometheus.CounterVec

	// Visited counts items handed to a visitor.
	// Labels: level (groups, threads)
	Visited *prometheus.CounterVec

	// Queries counts lookup calls.
	// Labels: op
	Queries *prometheus.CounterVec

	// RPCRequests counts daemon RPCs.
	// Labels: method, code
	RPCRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "traversal",
			Name:      "snapshots_total",
			Help:      "Total number of completed snapshot enumerations",
		}, []string{"level"}),
		SnapshotRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "traversal",
			Name:      "snapshot_retries_total",
			Help:      "Total number of snapshot buffers discarded because the live set outgrew them",
		}, []string{"level"}),
		Visited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "traversal",
			Name:      "visited_total",
			Help:      "Total number of items passed to a visitor",
		}, []string{"level"}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "queries_total",
			Help:      "Total number of lookup operations by name",
		}, []string{"op"}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "daemon",
			Name:      "rpc_requests_total",
			Help:      "Total number of introspection RPCs by method and status code",
		}, []string{"method", "code"}),
	}
	if reg != nil {
		reg.MustRegister(m.Snapshots, m.SnapshotRetries, m.Visited, m.Queries, m.RPCRequests)
	}
	return m
}

// ObserveSnapshot records one finished enumeration.
func (m *Metrics) ObserveSnapshot(level string, retries int) {
	if m == nil {
		return
	}
	m.Snapshots.WithLabelValues(level).Inc()
	if retries > 0 {
		m.SnapshotRetries.WithLabelValues(level).Add(float64(retries))
	}
}

// ObserveVisited records items handed to a visitor.
func (m *Metrics) ObserveVisited(level string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Visited.WithLabelValues(level).Add(float64(n))
}

// ObserveQuery records one lookup call.
func (m *Metrics) ObserveQuery(op string) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(op).Inc()
}

// ObserveRPC records one served RPC.
func (m *Metrics) ObserveRPC(method, code string) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, code).Inc()
}
