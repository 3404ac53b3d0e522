package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload/workloadtest"
)

func completeEnvironment() map[string]string {
	return map[string]string{
		"JIMM_UUID":     "8919ca7f-77a0-45d2-9f4f-4f1d1f2e0caa",
		"JIMM_DNS_NAME": "jimm.example.com",
		"JIMM_DSN":      "pgx:postgresql://db/jimm",
		"CANDID_URL":    "https://candid.example.com",
	}
}

func agentWithEnvironment(env map[string]string) *workloadtest.Agent {
	agent := workloadtest.New()
	agent.CurrentPlan.Services = map[string]*types.Service{
		types.WorkloadService: {Environment: env},
	}
	return agent
}

func TestEvaluateUnreachable(t *testing.T) {
	agent := workloadtest.New()
	agent.Connected = false

	status := Evaluate(agent)
	assert.Equal(t, types.Waiting("waiting for jimm workload"), status)
}

func TestEvaluateNoServiceDefined(t *testing.T) {
	agent := workloadtest.New()

	status := Evaluate(agent)
	assert.Equal(t, types.Waiting("waiting for service"), status)
}

func TestEvaluateMissingSettings(t *testing.T) {
	tests := []struct {
		name    string
		remove  []string
		blocked string
	}{
		{"missing uuid", []string{"JIMM_UUID"}, "JIMM_UUID"},
		{"missing dns name", []string{"JIMM_DNS_NAME"}, "JIMM_DNS_NAME"},
		{"missing dsn", []string{"JIMM_DSN"}, "JIMM_DSN"},
		{"missing candid url", []string{"CANDID_URL"}, "CANDID_URL"},
		// List order wins: JIMM_DSN precedes CANDID_URL.
		{"missing dsn and candid url", []string{"JIMM_DSN", "CANDID_URL"}, "JIMM_DSN"},
		{"all missing", []string{"JIMM_UUID", "JIMM_DNS_NAME", "JIMM_DSN", "CANDID_URL"}, "JIMM_UUID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := completeEnvironment()
			for _, key := range tt.remove {
				delete(env, key)
			}
			status := Evaluate(agentWithEnvironment(env))
			assert.Equal(t, types.Blocked(tt.blocked+" configuration value not set"), status)
		})
	}
}

func TestEvaluateEmptySettingIsMissing(t *testing.T) {
	env := completeEnvironment()
	env["JIMM_DSN"] = ""

	status := Evaluate(agentWithEnvironment(env))
	assert.Equal(t, types.Blocked("JIMM_DSN configuration value not set"), status)
}

func TestEvaluateRunning(t *testing.T) {
	agent := agentWithEnvironment(completeEnvironment())
	agent.Running[types.WorkloadService] = true

	assert.Equal(t, types.Active("running"), Evaluate(agent))
}

func TestEvaluateStopped(t *testing.T) {
	agent := agentWithEnvironment(completeEnvironment())

	assert.Equal(t, types.Waiting("stopped"), Evaluate(agent))
}

func TestEvaluateIsReadOnly(t *testing.T) {
	agent := agentWithEnvironment(completeEnvironment())

	for i := 0; i < 3; i++ {
		Evaluate(agent)
	}

	assert.Zero(t, agent.Mutations())
	assert.Empty(t, agent.StartCalls)
	assert.Empty(t, agent.StopCalls)
	assert.Zero(t, agent.ReplanCalls)
}

func TestReady(t *testing.T) {
	assert.True(t, Ready(types.Active("running")))
	assert.True(t, Ready(types.Waiting("stopped")))
	assert.False(t, Ready(types.Waiting("waiting for service")))
	assert.False(t, Ready(types.Blocked("JIMM_DSN configuration value not set")))
	assert.False(t, Ready(types.Maintenance("installing dashboard")))
}
