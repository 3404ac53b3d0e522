package types

// WorkloadService is the name of the managed service entry in the
// declarative plan held by the workload agent.
const WorkloadService = "jimm"

// RequiredSettings lists the environment variables that must be present
// and non-empty before the workload may be considered ready. The order
// is significant: the first missing entry is the one reported.
var RequiredSettings = []string{
	"JIMM_UUID",
	"JIMM_DNS_NAME",
	"JIMM_DSN",
	"CANDID_URL",
}

// Fixed paths on the workload filesystem.
const (
	AgentFilePath     = "/root/config/agent.json"
	VaultSecretPath   = "/root/config/vault_secret.json"
	DashboardPath     = "/root/dashboard"
	DashboardHashPath = "/root/dashboard/hash"
)

// StatusKind classifies the operator-visible state of the workload.
type StatusKind string

const (
	StatusActive      StatusKind = "active"
	StatusWaiting     StatusKind = "waiting"
	StatusBlocked     StatusKind = "blocked"
	StatusMaintenance StatusKind = "maintenance"
)

// Status is the user-visible state of the workload plus a short
// human-readable message. It is the only failure surface this
// controller exposes.
type Status struct {
	Kind    StatusKind
	Message string
}

// Active returns an active status with the given message.
func Active(message string) Status {
	return Status{Kind: StatusActive, Message: message}
}

// Waiting returns a waiting status with the given message.
func Waiting(message string) Status {
	return Status{Kind: StatusWaiting, Message: message}
}

// Blocked returns a blocked status with the given message.
func Blocked(message string) Status {
	return Status{Kind: StatusBlocked, Message: message}
}

// Maintenance returns a maintenance status with the given message.
func Maintenance(message string) Status {
	return Status{Kind: StatusMaintenance, Message: message}
}

func (s Status) String() string {
	if s.Message == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + ": " + s.Message
}

// Layer is a declarative description of services and health checks
// submitted to the workload agent. Layers submitted with combine
// semantics merge into the existing plan: new values override on key
// collision, absent keys are left untouched.
type Layer struct {
	Summary     string              `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Services    map[string]*Service `yaml:"services,omitempty" json:"services,omitempty"`
	Checks      map[string]*Check   `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// Service describes a single managed process entry in a layer.
type Service struct {
	Override    string            `yaml:"override,omitempty" json:"override,omitempty"`
	Summary     string            `yaml:"summary,omitempty" json:"summary,omitempty"`
	Command     string            `yaml:"command,omitempty" json:"command,omitempty"`
	Startup     string            `yaml:"startup,omitempty" json:"startup,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty" json:"environment,omitempty"`
}

// Check describes a named health check in a layer.
type Check struct {
	Override string     `yaml:"override,omitempty" json:"override,omitempty"`
	Period   string     `yaml:"period,omitempty" json:"period,omitempty"`
	HTTP     *HTTPCheck `yaml:"http,omitempty" json:"http,omitempty"`
}

// HTTPCheck is the HTTP probe of a health check.
type HTTPCheck struct {
	URL string `yaml:"url" json:"url"`
}

// Plan is the merged view of all layers currently held by the
// workload agent.
type Plan struct {
	Services map[string]*Service `yaml:"services,omitempty" json:"services,omitempty"`
	Checks   map[string]*Check   `yaml:"checks,omitempty" json:"checks,omitempty"`
}

// Service returns the named service entry of the plan, or nil.
func (p *Plan) Service(name string) *Service {
	if p == nil {
		return nil
	}
	return p.Services[name]
}

// Startup policies for a layer service entry.
const (
	StartupEnabled  = "enabled"
	StartupDisabled = "disabled"
)

// Override modes for layer entries.
const (
	OverrideMerge   = "merge"
	OverrideReplace = "replace"
)
