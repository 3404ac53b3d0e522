/*
Package reconciler converges a managed JIMM workload with its declared
desired state.

The reconciler is the only component that reads desired configuration
and issues writes to the workload. Each delivered trigger runs one
convergence pass that walks a fixed sequence of idempotent steps, so a
pass interrupted at any point is safely repeated from the top on the
next delivery.

# Architecture

Triggers arrive through the dispatcher and are mapped to handlers by
kind. Convergence-class triggers (config changes, leadership changes,
workload readiness) all run the same full pass:

	┌────────────────────────────────────────────────────────────┐
	│                    Convergence Pass                        │
	│              (per delivered trigger)                       │
	└────────────────┬───────────────────────────────────────────┘
	                 │
	                 ▼
	  1. Connectivity probe ──── unreachable? defer and return
	                 │
	                 ▼
	  2. Provision secret files (agent file, vault file)
	                 │
	                 ▼
	  3. Install dashboard bundle (fingerprint-gated)
	                 │
	                 ▼
	  4. Refresh ingress publication
	                 │
	                 ▼
	  5. Build and submit the service layer (merge)
	                 │
	                 ▼
	  6. Evaluate readiness
	       ├── ready:     start or replan, status Active
	       └── not ready: report status, defer
	                 │
	                 ▼
	  7. Publish dashboard relation data (always)

Step 7 runs regardless of the readiness outcome: dashboard consumers
get the controller endpoints as soon as a relation exists, even while
the workload itself is still blocked on configuration.

# Idempotence

Every step either performs a no-op when the converged state is already
present or repeats a write whose repetition is harmless:

  - Secret files are written once and never overwritten (presence gate).
  - The dashboard bundle is reinstalled only when its fingerprint
    differs from the installed marker.
  - Layer submission uses merge semantics, so resubmitting an identical
    layer changes nothing.
  - The start-or-replan decision is made fresh from live running state
    on every pass; no cached "started" flag exists to go stale.

This is what makes trigger redelivery the sole retry primitive: a
failed or deferred pass is simply run again in full.

# Core Components

Reconciler: holds the collaborators and the dispatch handlers.

	rec := reconciler.New(reconciler.Config{
		Agent:      workload.NewClient(socketPath),
		Store:      store,
		Relations:  relations,
		Desired:    loadConfig,
		IsLeader:   isLeader,
		BundlePath: bundlePath,
	})

	d := trigger.NewDispatcher()
	rec.RegisterHandlers(d)
	d.Start()
	defer d.Stop()

The Desired func is called once per pass; an updated configuration
takes effect on the next delivered trigger, never mid-pass.

# Durable State

The only state carried across restarts is the database master URI,
persisted through the storage.Store. HandleMasterChanged is its sole
writer and only records a URI announced for the expected logical
database ("jimm"). Convergence passes read it to decide whether the
JIMM_DSN setting can be rendered; everything else is recomputed from
live observations each pass.

# Relation Handling

Relation join triggers publish this controller's data into the
corresponding relation bag:

  - dashboard: controller endpoints and identity provider URL
  - website:   serving port
  - nrpe:      workload HTTP check definition
  - database:  logical database request (leader only)

A handler for a relation that has not been established is a no-op, so
join triggers and convergence passes can race freely.

# Status Reporting

The reconciler maintains a single visible workload status. It moves
through Maintenance ("starting", "installing dashboard"), Waiting
(unreachable or stopped workload), Blocked (a required setting is
missing, named in the message), and Active ("running"). Status writes
go through setStatus, which also drives the workload status gauge.

# Error Handling

A step returning an error aborts the pass; the dispatcher logs it and
requeues the trigger for redelivery. Two failures are deliberately not
errors: an unreachable workload (the pass defers itself) and a failed
dashboard archive extraction (logged, install marker still advances so
a broken bundle is not retried forever).

# See Also

  - pkg/trigger   - dispatch table and redelivery queue
  - pkg/secrets   - secret file provisioning
  - pkg/dashboard - fingerprint-gated bundle install
  - pkg/layout    - environment and service layer construction
  - pkg/readiness - status evaluation
  - pkg/relation  - relation data publication
*/
package reconciler
