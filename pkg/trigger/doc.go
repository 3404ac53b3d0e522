/*
Package trigger delivers external events to registered handlers and
requeues the ones that could not complete.

A Trigger is one delivery of an event kind, carrying the payload that
arrived with it (database name, master URI, ingress address). The
Dispatcher maps kinds to handlers through a dispatch table and delivers
triggers strictly one at a time.

# Dispatch

Handlers are installed with Register, which wraps each one in a logging
middleware recording entry and exit with the trigger kind and instance
id:

	d := trigger.NewDispatcher()
	d.Register(trigger.ConfigChanged, rec.Reconcile)
	d.Register(trigger.MasterChanged, rec.HandleMasterChanged)
	d.Start()
	defer d.Stop()

	d.Deliver(trigger.New(trigger.ConfigChanged))

Delivery is sequential by construction: either synchronously through
Dispatch, or through the channel drained by the single run loop. No
two handlers ever run concurrently, so handlers need no locking of
their own.

# Deferral and Redelivery

Redelivery is the system's only retry primitive. A trigger enters the
redelivery queue two ways:

  - the handler calls t.Defer() explicitly (workload unreachable,
    precondition not yet met), or
  - the handler returns an error, which implicitly requeues the
    trigger since nothing was fully converged.

Deferred triggers are replayed, in order, ahead of the next delivered
trigger. Because every handler is idempotent, replaying a trigger whose
work partially completed is safe: the committed steps no-op on the
retry.

	Delivery 1: config-changed ── workload unreachable ── deferred
	Delivery 2: workload-ready
	            replay: config-changed ── converges
	            handle: workload-ready ── converges (no-op steps)

There is no deferral cap and no backoff in this package; pacing is
owned by whatever produces the triggers.

# Metrics

Every delivery increments workload_triggers_total by kind. Deferrals
and handler errors are counted separately, so a persistently deferring
kind is visible without log diving.

# Unknown Kinds

A trigger whose kind has no registered handler is logged at warn level
and dropped. This keeps the dispatch table the single source of truth
for what the controller reacts to.
*/
package trigger
