package relation

import (
	"fmt"

	"github.com/canonical/jimm-operator/pkg/config"
)

// Names of the relations this controller participates in.
const (
	Dashboard = "dashboard"
	Website   = "website"
	NRPE      = "nrpe"
	Ingress   = "ingress"
	Database  = "db"
)

// Bag is this controller's writable view of one relation's shared data.
type Bag interface {
	Set(key, value string)
	Get(key string) string
}

// Relations exposes the relations currently established with this
// controller. Get returns nil for a relation that does not exist, which
// callers treat as "nothing to publish".
type Relations interface {
	Get(name string) Bag
}

// MapBag is a map-backed Bag.
type MapBag map[string]string

func (b MapBag) Set(key, value string) { b[key] = value }
func (b MapBag) Get(key string) string { return b[key] }

// Memory is an in-process Relations implementation, used in tests and
// as the backing store for relation data delivered by the host.
type Memory struct {
	bags map[string]MapBag
}

// NewMemory creates an empty relation set.
func NewMemory() *Memory {
	return &Memory{bags: make(map[string]MapBag)}
}

// Add establishes a relation and returns its bag.
func (m *Memory) Add(name string) MapBag {
	if _, ok := m.bags[name]; !ok {
		m.bags[name] = make(MapBag)
	}
	return m.bags[name]
}

// Get returns the named relation's bag, or nil when not established.
func (m *Memory) Get(name string) Bag {
	bag, ok := m.bags[name]
	if !ok {
		return nil
	}
	return bag
}

// PublishDashboard publishes the controller endpoints into the
// dashboard integration relation. Republished on relation join and at
// the end of every successful reconcile pass.
func PublishDashboard(bag Bag, cfg *config.Desired) {
	bag.Set("controller-url", cfg.DNSName)
	bag.Set("identity-provider-url", cfg.CandidURL)
	bag.Set("is-juju", "false")
}

// PublishWebsite publishes the serving port into the website relation.
func PublishWebsite(bag Bag) {
	bag.Set("port", "8080")
}

// PublishNRPECheck publishes a check definition for the monitoring
// agent, probing the workload's debug endpoint at the given ingress
// address.
func PublishNRPECheck(bag Bag, ingressAddress string) {
	bag.Set("shortname", "JIMM")
	bag.Set("description", "check JIMM running")
	bag.Set("check_cmd", fmt.Sprintf("check_http -w 2 -c 10 -I %s -p 8080 -u /debug/info", ingressAddress))
}

// PublishIngress publishes the ingress controller's routing
// configuration. The hostname tracks the configured DNS name and is
// refreshed on every reconcile pass.
func PublishIngress(bag Bag, cfg *config.Desired) {
	bag.Set("service-hostname", cfg.DNSName)
	bag.Set("service-name", "jimm")
	bag.Set("service-port", "8080")
}
