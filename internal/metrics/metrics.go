package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workflowTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "argus_workflow_transitions_total",
		Help: "Total number of workflow transitions applied, by entity and action",
	}, []string{"entity", "action"})
	statsComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "argus_stats_computed_total",
		Help: "Total number of aggregate statistics computations, by kind",
	}, []string{"kind"})
	postureSnapshotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "argus_posture_snapshots_total",
		Help: "Total number of posture snapshots taken",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(workflowTransitionsTotal, statsComputedTotal, postureSnapshotsTotal)
}

// IncTransition increments the workflow transition counter.
func IncTransition(entity, action string) {
	workflowTransitionsTotal.WithLabelValues(entity, action).Inc()
}

// IncStatsComputed increments the statistics computation counter.
func IncStatsComputed(kind string) { statsComputedTotal.WithLabelValues(kind).Inc() }

// IncSnapshot increments the posture snapshot counter.
func IncSnapshot() { postureSnapshotsTotal.Inc() }
