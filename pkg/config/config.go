package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDashboardLocation is used when no dashboard location override
// is configured and no dashboard tree is installed on the workload.
const DefaultDashboardLocation = "https://jaas.ai/models"

// Desired holds the declared configuration of the workload. It is
// supplied by the external configuration source and read-only to the
// controller: every reconcile pass sees the same values until a new
// config-changed trigger delivers a fresh copy.
type Desired struct {
	// Public controller identity.
	UUID    string `yaml:"uuid"`
	DNSName string `yaml:"dns-name"`

	// Candid identity provider.
	CandidURL             string `yaml:"candid-url"`
	CandidPublicKey       string `yaml:"candid-public-key"`
	CandidAgentUsername   string `yaml:"candid-agent-username"`
	CandidAgentPrivateKey string `yaml:"candid-agent-private-key"`
	CandidAgentPublicKey  string `yaml:"candid-agent-public-key"`

	// Controller behavior.
	ControllerAdmins string `yaml:"controller-admins"`
	LogLevel         string `yaml:"log-level"`

	// Vault secret store.
	VaultURL    string `yaml:"vault-url"`
	VaultRoleID string `yaml:"vault-role-id"`
	VaultToken  string `yaml:"vault-token"`

	// Dashboard location override. Defaults to the hosted dashboard.
	DashboardLocation string `yaml:"juju-dashboard-location"`
}

// Load reads the desired configuration from a YAML file and applies
// defaults for unset values.
func Load(path string) (*Desired, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Desired
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in default values for unset options.
func (c *Desired) ApplyDefaults() {
	if c.DashboardLocation == "" {
		c.DashboardLocation = DefaultDashboardLocation
	}
}
