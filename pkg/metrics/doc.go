/*
Package metrics provides Prometheus metrics for the convergence
controller.

Collectors are package-level and registered with the default registry
at init, so importing any package that records a metric is enough to
expose it. Handler returns the HTTP handler to mount on /metrics.

# Exported Metrics

Trigger delivery:

	jimm_operator_triggers_total{kind}       - deliveries by trigger kind
	jimm_operator_deferrals_total{kind}      - deferrals by trigger kind
	jimm_operator_handler_errors_total{kind} - handler failures by kind

Convergence:

	jimm_operator_reconcile_passes_total      - completed convergence passes
	jimm_operator_reconcile_duration_seconds  - pass duration histogram
	jimm_operator_dashboard_installs_total    - dashboard bundle installs

Workload:

	jimm_operator_workload_status{status}     - one-hot gauge of the
	                                            current reported status

# Usage

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconcileDuration)

	metrics.TriggersTotal.WithLabelValues("config-changed").Inc()
	metrics.SetWorkloadStatus("active")

A deferring trigger kind shows up as a growing deferrals counter with a
flat passes counter, which is the first thing to check when the
workload never reaches active.
*/
package metrics
