package layout

import (
	"github.com/canonical/jimm-operator/pkg/config"
	"github.com/canonical/jimm-operator/pkg/secrets"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

const (
	// ListenAddr is the address the workload serves on.
	ListenAddr = ":8080"

	// WorkloadCommand starts the workload process.
	WorkloadCommand = "/root/jimmsrv"

	// dsnPrefix is the driver tag prepended to the database URI.
	dsnPrefix = "pgx:"

	// checkName is the health check entry declared in the layer.
	checkName = "jimm-check"

	// checkURL is the workload's status endpoint probed by the check.
	checkURL = "http://localhost:8080/debug/status"
)

// Environment assembles the workload's environment from the desired
// configuration plus the observable side effects of earlier reconcile
// steps: secret artifacts toggle their keys by existing on the
// workload, a recorded database URI injects the DSN, leadership turns
// on controller watching, and an installed dashboard tree overrides the
// dashboard location. Entries with empty values are pruned.
func Environment(cfg *config.Desired, agent workload.Agent, dbURI string, leader bool) map[string]string {
	env := map[string]string{
		"CANDID_PUBLIC_KEY":       cfg.CandidPublicKey,
		"CANDID_URL":              cfg.CandidURL,
		"JIMM_ADMINS":             cfg.ControllerAdmins,
		"JIMM_DNS_NAME":           cfg.DNSName,
		"JIMM_LOG_LEVEL":          cfg.LogLevel,
		"JIMM_UUID":               cfg.UUID,
		"JIMM_DASHBOARD_LOCATION": cfg.DashboardLocation,
		"JIMM_LISTEN_ADDR":        ListenAddr,
	}

	if dbURI != "" {
		env["JIMM_DSN"] = dsnPrefix + dbURI
	}

	if agent.Exists(types.AgentFilePath) {
		env["BAKERY_AGENT_FILE"] = types.AgentFilePath
	}

	if agent.Exists(types.VaultSecretPath) {
		env["VAULT_ADDR"] = cfg.VaultURL
		env["VAULT_PATH"] = secrets.VaultSecretPath
		env["VAULT_SECRET_FILE"] = types.VaultSecretPath
		env["VAULT_AUTH_PATH"] = secrets.VaultAuthPath
	}

	if leader {
		env["JIMM_WATCH_CONTROLLERS"] = "1"
	}

	if agent.Exists(types.DashboardPath) {
		env["JIMM_DASHBOARD_LOCATION"] = types.DashboardPath
	}

	for key, value := range env {
		if value == "" {
			delete(env, key)
		}
	}
	return env
}

// Build returns the layer describing the workload service and its
// health check. The service entry merges into whatever plan the
// workload already holds.
func Build(cfg *config.Desired, agent workload.Agent, dbURI string, leader bool) *types.Layer {
	return &types.Layer{
		Summary:     "jimm layer",
		Description: "layer configuration for jimm",
		Services: map[string]*types.Service{
			types.WorkloadService: {
				Override:    types.OverrideMerge,
				Summary:     "JAAS Intelligent Model Manager",
				Command:     WorkloadCommand,
				Startup:     types.StartupDisabled,
				Environment: Environment(cfg, agent, dbURI, leader),
			},
		},
		Checks: map[string]*types.Check{
			checkName: {
				Override: types.OverrideReplace,
				Period:   "1m",
				HTTP:     &types.HTTPCheck{URL: checkURL},
			},
		},
	}
}
