package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/jimm-operator/pkg/config"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload/workloadtest"
)

func fullConfig() *config.Desired {
	cfg := &config.Desired{
		UUID:             "8919ca7f-77a0-45d2-9f4f-4f1d1f2e0caa",
		DNSName:          "jimm.example.com",
		CandidURL:        "https://candid.example.com",
		CandidPublicKey:  "pub-key",
		ControllerAdmins: "admin@external",
		LogLevel:         "debug",
		VaultURL:         "https://vault.example.com:8200",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestEnvironmentScalars(t *testing.T) {
	agent := workloadtest.New()
	env := Environment(fullConfig(), agent, "", false)

	assert.Equal(t, "https://candid.example.com", env["CANDID_URL"])
	assert.Equal(t, "pub-key", env["CANDID_PUBLIC_KEY"])
	assert.Equal(t, "admin@external", env["JIMM_ADMINS"])
	assert.Equal(t, "jimm.example.com", env["JIMM_DNS_NAME"])
	assert.Equal(t, "debug", env["JIMM_LOG_LEVEL"])
	assert.Equal(t, ":8080", env["JIMM_LISTEN_ADDR"])
	assert.Equal(t, "https://jaas.ai/models", env["JIMM_DASHBOARD_LOCATION"])
}

func TestEnvironmentPrunesEmptyValues(t *testing.T) {
	agent := workloadtest.New()
	cfg := fullConfig()
	cfg.CandidPublicKey = ""

	env := Environment(cfg, agent, "", false)

	_, present := env["CANDID_PUBLIC_KEY"]
	assert.False(t, present, "empty config values must be pruned, not kept as empty strings")
}

func TestEnvironmentDatabaseURI(t *testing.T) {
	agent := workloadtest.New()

	env := Environment(fullConfig(), agent, "", false)
	_, present := env["JIMM_DSN"]
	assert.False(t, present)

	env = Environment(fullConfig(), agent, "postgresql://db/jimm", false)
	assert.Equal(t, "pgx:postgresql://db/jimm", env["JIMM_DSN"])
}

func TestEnvironmentSecretArtifactToggles(t *testing.T) {
	agent := workloadtest.New()
	env := Environment(fullConfig(), agent, "", false)
	_, present := env["BAKERY_AGENT_FILE"]
	assert.False(t, present)
	_, present = env["VAULT_ADDR"]
	assert.False(t, present)

	agent.Files[types.AgentFilePath] = []byte("{}")
	agent.Files[types.VaultSecretPath] = []byte("{}")

	env = Environment(fullConfig(), agent, "", false)
	assert.Equal(t, types.AgentFilePath, env["BAKERY_AGENT_FILE"])
	assert.Equal(t, "https://vault.example.com:8200", env["VAULT_ADDR"])
	assert.Equal(t, "charm-jimm-creds", env["VAULT_PATH"])
	assert.Equal(t, types.VaultSecretPath, env["VAULT_SECRET_FILE"])
	assert.Equal(t, "/auth/approle/login", env["VAULT_AUTH_PATH"])
}

func TestEnvironmentLeaderFlag(t *testing.T) {
	agent := workloadtest.New()

	env := Environment(fullConfig(), agent, "", false)
	_, present := env["JIMM_WATCH_CONTROLLERS"]
	assert.False(t, present)

	env = Environment(fullConfig(), agent, "", true)
	assert.Equal(t, "1", env["JIMM_WATCH_CONTROLLERS"])
}

func TestEnvironmentInstalledDashboardOverridesLocation(t *testing.T) {
	agent := workloadtest.New()
	agent.Dirs[types.DashboardPath] = true

	env := Environment(fullConfig(), agent, "", false)
	assert.Equal(t, types.DashboardPath, env["JIMM_DASHBOARD_LOCATION"])
}

func TestBuildLayer(t *testing.T) {
	agent := workloadtest.New()
	layer := Build(fullConfig(), agent, "postgresql://db/jimm", true)

	svc := layer.Services[types.WorkloadService]
	require.NotNil(t, svc)
	assert.Equal(t, types.OverrideMerge, svc.Override)
	assert.Equal(t, "/root/jimmsrv", svc.Command)
	assert.Equal(t, types.StartupDisabled, svc.Startup)
	assert.NotEmpty(t, svc.Environment)

	check := layer.Checks["jimm-check"]
	require.NotNil(t, check)
	assert.Equal(t, types.OverrideReplace, check.Override)
	assert.Equal(t, "1m", check.Period)
	require.NotNil(t, check.HTTP)
	assert.Equal(t, "http://localhost:8080/debug/status", check.HTTP.URL)
}
