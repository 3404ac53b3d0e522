/*
Package workload defines the capability surface of the remote workload
supervisor and an HTTP client implementation of it.

# Capability Surface

The controller never touches the workload directly. Everything goes
through the Agent interface:

  - connectivity probe (CanConnect)
  - file operations (Exists, Pull, Push, MakeDir, RemovePath)
  - command execution with exit code and stderr capture (Exec)
  - declarative layer submission and plan retrieval (AddLayer, Plan)
  - service lifecycle (ServiceRunning, Start, Stop, Replan)

The supervisor exclusively owns on-disk artifacts and process state;
the controller enforces its idempotence invariants purely through its
access patterns (presence checks before writes, fingerprint comparison
before reinstall).

# Client Protocol

Client speaks JSON over the supervisor's unix control socket. Every
response arrives in a common envelope:

	{"type": "sync", "status-code": 200, "status": "OK", "result": ...}
	{"type": "error", "status-code": 404, "status": "Not Found",
	 "result": {"message": "..."}}

Layers and plans travel as YAML documents embedded as strings inside
the JSON payload; file content travels base64-encoded. The endpoints
map one-to-one onto the Agent methods:

	GET  /v1/health     - connectivity probe
	GET  /v1/files      - stat and read (action query parameter)
	POST /v1/files      - write, make-dir, remove
	POST /v1/exec       - run a command, wait, capture stderr
	POST /v1/layers     - submit a layer (label + combine flag)
	GET  /v1/plan       - effective merged plan
	GET  /v1/services   - per-service running state
	POST /v1/services   - start, stop, replan

All calls are synchronous: an operation either completes or returns an
error before the next reconcile step proceeds. The client enforces a
request timeout, but a supervisor that accepts the connection and then
hangs within it stalls the current pass; the dispatcher's redelivery
queue absorbs that as an ordinary deferred trigger.

# Exec Failures

A command that starts but exits non-zero surfaces as *ExecError
carrying the argv, exit code, and captured stderr. Callers decide
severity: the dashboard installer logs extraction failures and moves
on, while anything else treats a non-zero exit as a pass failure.

# Testing

The workloadtest subpackage provides an in-memory Agent with a full
fake filesystem, plan merge semantics, and per-operation call
recording. Its Mutations counter is how tests assert that a repeated
convergence pass touched nothing.
*/
package workload
