/*
Package readiness evaluates whether the workload's submitted plan is
complete enough to run, and what status to report if not.

Evaluate inspects only live workload state, in a fixed order:

 1. Workload unreachable        → Waiting "waiting for jimm workload"
 2. No jimm service in the plan → Waiting "waiting for service"
 3. A required setting missing  → Blocked "<KEY> configuration value not set"
 4. Service running             → Active "running"
 5. Otherwise                   → Waiting "stopped"

Required settings are checked in the canonical order (JIMM_UUID,
JIMM_DNS_NAME, JIMM_DSN, CANDID_URL) and the first missing one names
the blocked status, so an operator always sees a single stable next
action rather than a shifting list.

Ready reports whether a status permits starting the service: Active,
or Waiting with the service merely stopped. Blocked and the earlier
Waiting states do not qualify.
*/
package readiness
