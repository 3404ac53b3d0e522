package workload

import (
	"fmt"

	"github.com/canonical/jimm-operator/pkg/types"
)

// Agent is the capability surface of the remote workload supervisor.
// It is the only way the controller touches the workload: file
// operations, process lifecycle and declarative layer submission.
//
// All methods other than CanConnect and Exists return an error when the
// supervisor is unreachable; callers are expected to have probed
// connectivity first and to treat mid-pass failures as fatal to the
// current pass (the trigger is redelivered later).
type Agent interface {
	// CanConnect reports whether the workload supervisor is reachable.
	CanConnect() bool

	// Exists reports whether a path exists on the workload filesystem.
	// An unreachable supervisor reads as "does not exist".
	Exists(path string) bool

	// Pull reads the content of a file on the workload.
	Pull(path string) ([]byte, error)

	// Push writes a file on the workload, optionally creating parent
	// directories.
	Push(path string, data []byte, makeDirs bool) error

	// MakeDir creates a directory on the workload.
	MakeDir(path string, makeParents bool) error

	// RemovePath removes a file or directory tree on the workload.
	RemovePath(path string) error

	// Exec starts a command on the workload and returns a handle to
	// wait for its completion.
	Exec(argv []string) (ExecProcess, error)

	// AddLayer submits a layer under the given label. With combine set
	// the layer merges into the existing plan, otherwise it replaces
	// the layer previously submitted under the same label.
	AddLayer(label string, layer *types.Layer, combine bool) error

	// Plan returns the merged declarative plan currently in effect.
	Plan() (*types.Plan, error)

	// ServiceRunning reports whether the named service is currently
	// running.
	ServiceRunning(name string) (bool, error)

	// Start starts the named service.
	Start(name string) error

	// Stop stops the named service.
	Stop(name string) error

	// Replan re-applies the current plan to running services without a
	// hard restart of unrelated state.
	Replan() error
}

// ExecProcess is a handle to a command started with Agent.Exec.
type ExecProcess interface {
	// Wait blocks until the command completes. A non-zero exit is
	// reported as an *ExecError carrying the exit code and captured
	// stderr.
	Wait() error
}

// ExecError reports a command that completed with a non-zero exit code.
type ExecError struct {
	Command  []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}
