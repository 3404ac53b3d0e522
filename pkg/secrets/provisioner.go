package secrets

import (
	"encoding/json"
	"fmt"

	vault "github.com/hashicorp/vault/api"

	"github.com/canonical/jimm-operator/pkg/config"
	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

// VaultSecretPath is the path under which the workload stores its
// credentials in Vault.
const VaultSecretPath = "charm-jimm-creds"

// VaultAuthPath is the approle login path on the Vault server.
const VaultAuthPath = "/auth/approle/login"

// UnwrapFunc retrieves a one-time-use wrapped secret from a Vault
// server. The default implementation calls sys/wrapping/unwrap with the
// supplied token; tests substitute a stub.
type UnwrapFunc func(addr, token string) (*vault.Secret, error)

// Provisioner idempotently materializes the two secret artifacts the
// workload needs: the bakery agent credential file and the Vault
// approle bundle. Presence of the artifact at its fixed path is the
// entire idempotence mechanism: an existing artifact is never
// regenerated or overwritten.
type Provisioner struct {
	unwrap UnwrapFunc
}

// NewProvisioner creates a provisioner that unwraps secrets against a
// real Vault server.
func NewProvisioner() *Provisioner {
	return &Provisioner{unwrap: vaultUnwrap}
}

// NewProvisionerWithUnwrap creates a provisioner with a custom unwrap
// function.
func NewProvisionerWithUnwrap(unwrap UnwrapFunc) *Provisioner {
	return &Provisioner{unwrap: unwrap}
}

// agentDocument is the serialized form of the bakery agent credential
// file.
type agentDocument struct {
	Key    agentKey     `json:"key"`
	Agents []agentEntry `json:"agents"`
}

type agentKey struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}

type agentEntry struct {
	URL      string `json:"url"`
	Username string `json:"username"`
}

// EnsureAgentFile writes the bakery agent credential file on the
// workload unless it already exists. All four of the candid URL, agent
// username, private key and public key must be configured; a missing
// value means "not configured yet" and the artifact is silently
// skipped.
func (p *Provisioner) EnsureAgentFile(cfg *config.Desired, agent workload.Agent) error {
	if agent.Exists(types.AgentFilePath) {
		return nil
	}
	if cfg.CandidURL == "" || cfg.CandidAgentUsername == "" ||
		cfg.CandidAgentPrivateKey == "" || cfg.CandidAgentPublicKey == "" {
		return nil
	}

	doc := agentDocument{
		Key: agentKey{
			Public:  cfg.CandidAgentPublicKey,
			Private: cfg.CandidAgentPrivateKey,
		},
		Agents: []agentEntry{{
			URL:      cfg.CandidURL,
			Username: cfg.CandidAgentUsername,
		}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode agent credentials: %w", err)
	}

	log.Logger.Info().Str("path", types.AgentFilePath).Msg("pushing bakery agent file to the workload")
	if err := agent.Push(types.AgentFilePath, data, true); err != nil {
		return fmt.Errorf("failed to write agent credentials: %w", err)
	}
	return nil
}

// EnsureVaultFile writes the Vault approle bundle on the workload
// unless it already exists. The Vault address, role id and token must
// each be configured or provisioning is silently skipped. The unwrap
// call against the Vault server is the one external dependency of this
// package: its failure propagates, aborting the current pass, and since
// nothing was persisted the next pass retries from the top.
func (p *Provisioner) EnsureVaultFile(cfg *config.Desired, agent workload.Agent) error {
	if cfg.VaultURL == "" {
		return nil
	}
	if agent.Exists(types.VaultSecretPath) {
		return nil
	}
	if cfg.VaultRoleID == "" {
		return nil
	}
	if cfg.VaultToken == "" {
		return nil
	}

	secret, err := p.unwrap(cfg.VaultURL, cfg.VaultToken)
	if err != nil {
		return fmt.Errorf("failed to unwrap vault secret: %w", err)
	}
	if secret == nil {
		return fmt.Errorf("vault returned an empty unwrap response")
	}
	if secret.Data == nil {
		secret.Data = make(map[string]interface{})
	}
	secret.Data["role_id"] = cfg.VaultRoleID

	data, err := json.Marshal(secret)
	if err != nil {
		return fmt.Errorf("failed to encode vault secret: %w", err)
	}

	log.Logger.Info().Str("path", types.VaultSecretPath).Msg("pushing vault secret file to the workload")
	if err := agent.Push(types.VaultSecretPath, data, true); err != nil {
		return fmt.Errorf("failed to write vault secret: %w", err)
	}
	return nil
}

func vaultUnwrap(addr, token string) (*vault.Secret, error) {
	client, err := vault.NewClient(&vault.Config{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)
	return client.Logical().Unwrap("")
}
