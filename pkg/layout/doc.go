/*
Package layout renders the desired configuration into the declarative
service layer submitted to the workload supervisor.

# Environment Construction

Environment assembles the workload's environment map from four inputs:
the desired configuration, the workload filesystem (probed for the
optional secret and dashboard files), the durable database URI, and
the leadership flag. Settings fall into groups:

  - scalar settings copied from configuration (UUID, DNS name, candid
    endpoints, controller admins, log level)
  - JIMM_DSN, rendered as "pgx:" + the recorded database URI
  - BAKERY_AGENT_FILE, present only when the agent file exists on the
    workload
  - the VAULT_* group, present only when the vault secret file exists
  - JIMM_WATCH_CONTROLLERS, set to "1" on the leader only
  - the dashboard location, overridden to the local path when an
    installed dashboard is present

Keys with empty values are pruned, so a missing configuration item
yields an absent setting rather than an empty one. Readiness
evaluation depends on this: it detects missing required settings by
key absence.

# Layer Shape

Build wraps the environment in a layer declaring the jimm service with
merge override and disabled startup, plus an HTTP liveness check
against /debug/status. Startup stays disabled because the reconciler
owns the start decision; the supervisor never auto-starts the service
on its own.

	layer := layout.Build(cfg, agent, dbURI, isLeader)
	err := agent.AddLayer("jimm", layer, true)

Submitting the same layer repeatedly is a no-op under merge semantics,
which is what lets every convergence pass resubmit unconditionally.
*/
package layout
