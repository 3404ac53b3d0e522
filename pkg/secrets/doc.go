/*
Package secrets provisions the credential files the workload needs on
its filesystem.

Two files are managed, both written into the workload's config
directory exactly once and never overwritten:

  - the agent file: the identity-provider agent credentials rendered as
    JSON at /root/config/agent.json
  - the vault file: an unwrapped Vault secret, with the role id folded
    in, at /root/config/vault_secret.json

# Write-Once Semantics

Both operations are gated on file presence before anything else: if the
target path already exists on the workload, the operation returns
immediately without reading configuration or contacting Vault. Secret
material is therefore never regenerated or rotated by this package.
Replacing a credential means removing the file out of band and letting
the next convergence pass re-provision it.

After the presence gate, each operation checks its configuration
preconditions and silently skips while any are missing:

	agent file:  candid-agent-username, candid-agent-private-key,
	             candid-agent-public-key, candid-url
	vault file:  vault-url, then vault-role-id, then vault-token

A skip is not an error. The pass continues and the file is provisioned
on a later pass once configuration is complete.

# Token Unwrapping

The vault token arriving in configuration is a single-use wrapping
token. EnsureVaultFile exchanges it for the real secret through Vault's
sys/wrapping/unwrap endpoint and persists the full unwrapped secret.
The presence gate is what makes the single-use token safe: the unwrap
runs at most once, and only when the file does not already exist. An
unwrap failure fails the pass with nothing persisted, so the trigger is
redelivered and the exchange retried.

The unwrap call is injectable (NewProvisionerWithUnwrap) so tests can
exercise the gating logic without a Vault server.

# Usage

	p := secrets.NewProvisioner()
	if err := p.EnsureAgentFile(cfg, agent); err != nil { ... }
	if err := p.EnsureVaultFile(cfg, agent); err != nil { ... }
*/
package secrets
