/*
Package config loads and defaults the desired configuration the
controller converges the workload toward.

Desired is a flat YAML document: controller identity (uuid, dns-name),
identity provider endpoints and agent credentials, vault access
settings, and the dashboard location. Load reads and validates a file;
ApplyDefaults fills the dashboard location when unset.

Most fields are optional by design. The controller reports a blocked
status naming the first missing required value rather than refusing to
start, and secret-dependent settings are simply omitted from the
workload environment until their configuration arrives. Validation
here is therefore structural (the file parses), not completeness.
*/
package config
