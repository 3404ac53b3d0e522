package readiness

import (
	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

// Evaluate classifies the workload into one of four states by reading
// the declarative plan back from the agent. It never mutates agent
// state and is safe to call on every status-check trigger as well as at
// the end of every reconcile pass.
//
//   - agent unreachable: waiting
//   - plan has no entry for the managed service: waiting
//   - a required setting absent or empty: blocked, naming the first
//     missing key in types.RequiredSettings order
//   - otherwise: active when the service runs, waiting("stopped") when
//     it does not
func Evaluate(agent workload.Agent) types.Status {
	logger := log.WithComponent("readiness")

	if !agent.CanConnect() {
		logger.Error().Msg("cannot connect to workload supervisor")
		return types.Waiting("waiting for jimm workload")
	}

	plan, err := agent.Plan()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read plan")
		return types.Waiting("waiting for jimm workload")
	}

	svc := plan.Service(types.WorkloadService)
	if svc == nil {
		logger.Error().Msg("waiting for service")
		return types.Waiting("waiting for service")
	}

	for _, setting := range types.RequiredSettings {
		if svc.Environment[setting] == "" {
			return types.Blocked(setting + " configuration value not set")
		}
	}

	running, err := agent.ServiceRunning(types.WorkloadService)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read service state")
		return types.Waiting("waiting for jimm workload")
	}
	if running {
		return types.Active("running")
	}
	return types.Waiting("stopped")
}

// Ready reports whether a status means the workload is fully
// configured: either already running, or stopped but startable. A ready
// workload may be started or replanned; anything else is re-deferred.
func Ready(s types.Status) bool {
	if s.Kind == types.StatusActive {
		return true
	}
	return s.Kind == types.StatusWaiting && s.Message == "stopped"
}
