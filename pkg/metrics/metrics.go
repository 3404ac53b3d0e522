package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trigger metrics
	TriggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jimm_operator_triggers_total",
			Help: "Total number of triggers delivered by kind",
		},
		[]string{"kind"},
	)

	DeferralsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jimm_operator_deferrals_total",
			Help: "Total number of triggers deferred for redelivery by kind",
		},
		[]string{"kind"},
	)

	HandlerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jimm_operator_handler_errors_total",
			Help: "Total number of handler failures by trigger kind",
		},
		[]string{"kind"},
	)

	// Reconciliation metrics
	ReconcilePassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jimm_operator_reconcile_passes_total",
			Help: "Total number of reconcile passes run",
		},
	)

	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jimm_operator_reconcile_duration_seconds",
			Help:    "Reconcile pass duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DashboardInstallsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jimm_operator_dashboard_installs_total",
			Help: "Total number of dashboard bundle installations",
		},
	)

	// Workload status: one gauge per status kind, exactly one set to 1
	WorkloadStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jimm_operator_workload_status",
			Help: "Current workload status (1 for the active kind, 0 otherwise)",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(TriggersTotal)
	prometheus.MustRegister(DeferralsTotal)
	prometheus.MustRegister(HandlerErrorsTotal)
	prometheus.MustRegister(ReconcilePassesTotal)
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(DashboardInstallsTotal)
	prometheus.MustRegister(WorkloadStatus)
}

// SetWorkloadStatus marks the given status kind current and clears the
// others.
func SetWorkloadStatus(kind string) {
	for _, s := range []string{"active", "waiting", "blocked", "maintenance"} {
		value := 0.0
		if s == kind {
			value = 1.0
		}
		WorkloadStatus.WithLabelValues(s).Set(value)
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
