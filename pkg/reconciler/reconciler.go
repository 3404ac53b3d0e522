package reconciler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/canonical/jimm-operator/pkg/config"
	"github.com/canonical/jimm-operator/pkg/dashboard"
	"github.com/canonical/jimm-operator/pkg/layout"
	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/metrics"
	"github.com/canonical/jimm-operator/pkg/readiness"
	"github.com/canonical/jimm-operator/pkg/relation"
	"github.com/canonical/jimm-operator/pkg/secrets"
	"github.com/canonical/jimm-operator/pkg/storage"
	"github.com/canonical/jimm-operator/pkg/trigger"
	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

// layerLabel is the label the workload layer is submitted under.
const layerLabel = "jimm"

// expectedDatabase is the logical database name this controller
// accepts master announcements for.
const expectedDatabase = "jimm"

// Config supplies the reconciler's collaborators.
type Config struct {
	Agent     workload.Agent
	Store     storage.Store
	Relations relation.Relations

	// Desired returns the current desired configuration. Called once
	// per pass; the result is treated as immutable for that pass.
	Desired func() *config.Desired

	// IsLeader reports whether this replica is the elected leader.
	IsLeader func() bool

	// BundlePath locates the dashboard asset bundle; empty when no
	// bundle is supplied.
	BundlePath string

	// Provisioner defaults to one unwrapping against a real Vault
	// server.
	Provisioner *secrets.Provisioner
}

// Reconciler converges the workload with the desired state. One
// Reconcile call is one convergence pass; every step in it is
// idempotent, so a pass aborted by an unreachable agent or a failed
// external call is safely repeated from the top on trigger redelivery.
type Reconciler struct {
	agent       workload.Agent
	store       storage.Store
	relations   relation.Relations
	desired     func() *config.Desired
	isLeader    func() bool
	bundlePath  string
	provisioner *secrets.Provisioner
	installer   *dashboard.Installer

	status types.Status
	logger zerolog.Logger
}

// New creates a reconciler.
func New(cfg Config) *Reconciler {
	r := &Reconciler{
		agent:       cfg.Agent,
		store:       cfg.Store,
		relations:   cfg.Relations,
		desired:     cfg.Desired,
		isLeader:    cfg.IsLeader,
		bundlePath:  cfg.BundlePath,
		provisioner: cfg.Provisioner,
		status:      types.Maintenance("starting"),
		logger:      log.WithComponent("reconciler"),
	}
	if r.provisioner == nil {
		r.provisioner = secrets.NewProvisioner()
	}
	r.installer = dashboard.NewInstaller(r.setStatus)
	return r
}

// Status returns the last status the reconciler reported.
func (r *Reconciler) Status() types.Status {
	return r.status
}

func (r *Reconciler) setStatus(s types.Status) {
	r.status = s
	metrics.SetWorkloadStatus(string(s.Kind))
	r.logger.Info().Str("status", string(s.Kind)).Str("message", s.Message).Msg("workload status")
}

// RegisterHandlers installs the dispatch table mapping every trigger
// kind to its handler.
func (r *Reconciler) RegisterHandlers(d *trigger.Dispatcher) {
	d.Register(trigger.ConfigChanged, r.Reconcile)
	d.Register(trigger.LeaderElected, r.Reconcile)
	d.Register(trigger.WorkloadReady, r.Reconcile)
	d.Register(trigger.Start, r.HandleStart)
	d.Register(trigger.Stop, r.HandleStop)
	d.Register(trigger.StatusCheck, r.HandleStatusCheck)
	d.Register(trigger.DashboardJoined, r.HandleDashboardJoined)
	d.Register(trigger.WebsiteJoined, r.HandleWebsiteJoined)
	d.Register(trigger.NRPEJoined, r.HandleNRPEJoined)
	d.Register(trigger.DatabaseJoined, r.HandleDatabaseJoined)
	d.Register(trigger.MasterChanged, r.HandleMasterChanged)
}

// Reconcile runs one convergence pass. Steps run in a fixed order:
// connectivity probe, secret provisioning, dashboard installation,
// ingress refresh, layer submission, readiness evaluation with the
// start-or-replan decision, and finally the dashboard relation
// publication, which happens regardless of readiness.
func (r *Reconciler) Reconcile(t *trigger.Trigger) error {
	if !r.agent.CanConnect() {
		r.logger.Info().Msg("cannot connect to the workload - deferring the trigger")
		t.Defer()
		return nil
	}

	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.ReconcileDuration)
		metrics.ReconcilePassesTotal.Inc()
	}()

	cfg := r.desired()

	if err := r.provisioner.EnsureAgentFile(cfg, r.agent); err != nil {
		return err
	}
	if err := r.provisioner.EnsureVaultFile(cfg, r.agent); err != nil {
		return err
	}
	if err := r.installer.Reconcile(r.bundlePath, r.agent); err != nil {
		return err
	}

	if bag := r.relations.Get(relation.Ingress); bag != nil {
		relation.PublishIngress(bag, cfg)
	}

	dbURI, err := r.store.DatabaseURI()
	if err != nil {
		return fmt.Errorf("failed to read database uri: %w", err)
	}
	layer := layout.Build(cfg, r.agent, dbURI, r.isLeader())
	if err := r.agent.AddLayer(layerLabel, layer, true); err != nil {
		return err
	}

	status := readiness.Evaluate(r.agent)
	if readiness.Ready(status) {
		// The start-or-replan decision is made fresh from live running
		// state; no cached flag is trusted.
		running, err := r.agent.ServiceRunning(types.WorkloadService)
		if err != nil {
			return err
		}
		if running {
			if err := r.agent.Replan(); err != nil {
				return err
			}
		} else {
			if err := r.agent.Start(types.WorkloadService); err != nil {
				return err
			}
		}
		r.setStatus(types.Active("running"))
	} else {
		r.logger.Info().Msg("workload not ready - deferring")
		r.setStatus(status)
		t.Defer()
	}

	if bag := r.relations.Get(relation.Dashboard); bag != nil {
		relation.PublishDashboard(bag, cfg)
	}
	return nil
}

// HandleStart starts the workload after validating that the plan holds
// a complete service definition. An incomplete plan only updates the
// visible status; it is not an error.
func (r *Reconciler) HandleStart(_ *trigger.Trigger) error {
	if !r.agent.CanConnect() {
		return nil
	}
	status := readiness.Evaluate(r.agent)
	if !readiness.Ready(status) {
		r.setStatus(status)
		return nil
	}
	if err := r.agent.Start(types.WorkloadService); err != nil {
		return err
	}
	r.setStatus(types.Active("running"))
	return nil
}

// HandleStop stops the workload and refreshes the visible status.
func (r *Reconciler) HandleStop(_ *trigger.Trigger) error {
	if r.agent.CanConnect() {
		if err := r.agent.Stop(types.WorkloadService); err != nil {
			return err
		}
	}
	r.setStatus(readiness.Evaluate(r.agent))
	return nil
}

// HandleStatusCheck re-evaluates readiness and updates the visible
// status.
func (r *Reconciler) HandleStatusCheck(_ *trigger.Trigger) error {
	r.setStatus(readiness.Evaluate(r.agent))
	return nil
}

// HandleDashboardJoined publishes the controller endpoints into the
// newly joined dashboard relation.
func (r *Reconciler) HandleDashboardJoined(_ *trigger.Trigger) error {
	bag := r.relations.Get(relation.Dashboard)
	if bag == nil {
		return nil
	}
	relation.PublishDashboard(bag, r.desired())
	return nil
}

// HandleWebsiteJoined publishes the serving port into the website
// relation.
func (r *Reconciler) HandleWebsiteJoined(_ *trigger.Trigger) error {
	bag := r.relations.Get(relation.Website)
	if bag == nil {
		return nil
	}
	relation.PublishWebsite(bag)
	return nil
}

// HandleNRPEJoined publishes the workload check definition for the
// monitoring agent.
func (r *Reconciler) HandleNRPEJoined(t *trigger.Trigger) error {
	bag := r.relations.Get(relation.NRPE)
	if bag == nil {
		return nil
	}
	relation.PublishNRPECheck(bag, t.IngressAddress)
	return nil
}

// HandleDatabaseJoined requests the logical database on the leader. A
// non-leader seeing a different database name defers until the leader
// has made the request.
func (r *Reconciler) HandleDatabaseJoined(t *trigger.Trigger) error {
	r.logger.Info().Msg("database relation joined")
	if r.isLeader() {
		if bag := r.relations.Get(relation.Database); bag != nil {
			bag.Set("database", expectedDatabase)
		}
	} else if t.Database != expectedDatabase {
		t.Defer()
	}
	return nil
}

// HandleMasterChanged records the database master's connection URI.
// This is the only writer of the durable cross-pass state, and it only
// writes when the announced logical database name matches.
func (r *Reconciler) HandleMasterChanged(t *trigger.Trigger) error {
	r.logger.Info().Msg("database master changed")
	if t.Database != expectedDatabase {
		r.logger.Debug().Msg("database setup not complete yet, returning")
		return nil
	}
	if t.MasterURI == "" {
		return nil
	}
	if err := r.store.SetDatabaseURI(t.MasterURI); err != nil {
		return fmt.Errorf("failed to record database uri: %w", err)
	}
	return nil
}
