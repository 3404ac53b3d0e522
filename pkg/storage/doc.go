/*
Package storage persists the controller's durable cross-pass state.

Only one value outlives a reconcile pass: the database connection URI
announced by the database master-election notification. It is modeled
as an explicit, injectable key-value store rather than ambient process
state so the single-writer rule (master-changed handler only, and only
on a logical database-name match) is independently testable.

Two implementations are provided:

  - BoltStore: BoltDB-backed, used in production so the URI survives a
    controller restart
  - Memory: in-process, used in tests

All other state in the system is either owned by the workload
supervisor (on-disk artifacts, process state, the declarative plan) or
recomputed from the desired configuration on every pass.
*/
package storage
