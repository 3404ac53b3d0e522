package trigger

import (
	"github.com/google/uuid"
)

// Kind identifies one of the finite trigger kinds delivered by the
// host.
type Kind string

const (
	ConfigChanged   Kind = "config-changed"
	LeaderElected   Kind = "leader-elected"
	WorkloadReady   Kind = "workload-ready"
	Start           Kind = "start"
	Stop            Kind = "stop"
	StatusCheck     Kind = "status-check"
	DashboardJoined Kind = "dashboard-relation-joined"
	WebsiteJoined   Kind = "website-relation-joined"
	NRPEJoined      Kind = "nrpe-relation-joined"
	DatabaseJoined  Kind = "database-relation-joined"
	MasterChanged   Kind = "database-master-changed"
)

// Trigger is one convergence trigger. A handler that cannot make
// progress calls Defer to request redelivery of the identical trigger
// at a later time; deferral is the sole retry primitive.
type Trigger struct {
	ID   string
	Kind Kind

	// Database and MasterURI are carried by database relation
	// triggers: the logical database name being announced and, for
	// master-changed, the new master's connection URI.
	Database  string
	MasterURI string

	// IngressAddress is carried by nrpe-relation-joined: the address
	// the monitoring agent should probe.
	IngressAddress string

	deferred bool
}

// New creates a trigger of the given kind with a fresh instance id.
func New(kind Kind) *Trigger {
	return &Trigger{ID: uuid.NewString(), Kind: kind}
}

// Defer requests redelivery of this trigger ahead of the next delivered
// trigger.
func (t *Trigger) Defer() {
	t.deferred = true
}

// Deferred reports whether redelivery was requested during the current
// delivery.
func (t *Trigger) Deferred() bool {
	return t.deferred
}
