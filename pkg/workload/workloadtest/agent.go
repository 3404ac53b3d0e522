// Package workloadtest provides an in-memory workload.Agent for tests.
package workloadtest

import (
	"errors"
	"strings"

	"github.com/canonical/jimm-operator/pkg/types"
	"github.com/canonical/jimm-operator/pkg/workload"
)

// ErrNotConnected is returned by all operations while the fake agent is
// marked unreachable.
var ErrNotConnected = errors.New("cannot connect to workload supervisor")

// Agent is an in-memory implementation of workload.Agent. It keeps a
// flat file map plus a directory set, applies layers with combine
// semantics, and records every mutating call so tests can assert on
// idempotence.
type Agent struct {
	Connected bool

	Files map[string][]byte
	Dirs  map[string]bool

	CurrentPlan types.Plan
	Running     map[string]bool

	// Exec behavior: every exec records its argv and completes with
	// ExecExitCode / ExecStderr.
	ExecExitCode int
	ExecStderr   string

	// Recorded calls.
	PushCalls    []string
	RemoveCalls  []string
	MakeDirCalls []string
	ExecCalls    [][]string
	LayerCalls   int
	StartCalls   []string
	StopCalls    []string
	ReplanCalls  int
}

var _ workload.Agent = (*Agent)(nil)

// New returns a connected agent with an empty filesystem and no plan.
func New() *Agent {
	return &Agent{
		Connected: true,
		Files:     make(map[string][]byte),
		Dirs:      make(map[string]bool),
		Running:   make(map[string]bool),
	}
}

// Mutations returns the total number of filesystem mutations performed.
func (a *Agent) Mutations() int {
	return len(a.PushCalls) + len(a.RemoveCalls) + len(a.MakeDirCalls) + len(a.ExecCalls)
}

func (a *Agent) CanConnect() bool {
	return a.Connected
}

func (a *Agent) Exists(path string) bool {
	if !a.Connected {
		return false
	}
	if _, ok := a.Files[path]; ok {
		return true
	}
	return a.Dirs[path]
}

func (a *Agent) Pull(path string) ([]byte, error) {
	if !a.Connected {
		return nil, ErrNotConnected
	}
	data, ok := a.Files[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return data, nil
}

func (a *Agent) Push(path string, data []byte, makeDirs bool) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.PushCalls = append(a.PushCalls, path)
	a.Files[path] = append([]byte(nil), data...)
	return nil
}

func (a *Agent) MakeDir(path string, makeParents bool) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.MakeDirCalls = append(a.MakeDirCalls, path)
	a.Dirs[path] = true
	return nil
}

func (a *Agent) RemovePath(path string) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.RemoveCalls = append(a.RemoveCalls, path)
	delete(a.Files, path)
	delete(a.Dirs, path)
	for p := range a.Files {
		if strings.HasPrefix(p, path+"/") {
			delete(a.Files, p)
		}
	}
	for p := range a.Dirs {
		if strings.HasPrefix(p, path+"/") {
			delete(a.Dirs, p)
		}
	}
	return nil
}

func (a *Agent) Exec(argv []string) (workload.ExecProcess, error) {
	if !a.Connected {
		return nil, ErrNotConnected
	}
	a.ExecCalls = append(a.ExecCalls, argv)
	return &fakeProcess{
		command:  argv,
		exitCode: a.ExecExitCode,
		stderr:   a.ExecStderr,
	}, nil
}

type fakeProcess struct {
	command  []string
	exitCode int
	stderr   string
}

func (p *fakeProcess) Wait() error {
	if p.exitCode != 0 {
		return &workload.ExecError{Command: p.command, ExitCode: p.exitCode, Stderr: p.stderr}
	}
	return nil
}

func (a *Agent) AddLayer(label string, layer *types.Layer, combine bool) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.LayerCalls++
	if a.CurrentPlan.Services == nil {
		a.CurrentPlan.Services = make(map[string]*types.Service)
	}
	if a.CurrentPlan.Checks == nil {
		a.CurrentPlan.Checks = make(map[string]*types.Check)
	}
	for name, svc := range layer.Services {
		existing := a.CurrentPlan.Services[name]
		if combine && existing != nil && svc.Override == types.OverrideMerge {
			mergeService(existing, svc)
		} else {
			a.CurrentPlan.Services[name] = copyService(svc)
		}
	}
	for name, check := range layer.Checks {
		cp := *check
		a.CurrentPlan.Checks[name] = &cp
	}
	return nil
}

// mergeService applies layer merge semantics: new values override on
// key collision, absent keys are left untouched.
func mergeService(dst, src *types.Service) {
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
	if src.Command != "" {
		dst.Command = src.Command
	}
	if src.Startup != "" {
		dst.Startup = src.Startup
	}
	if dst.Environment == nil {
		dst.Environment = make(map[string]string)
	}
	for k, v := range src.Environment {
		dst.Environment[k] = v
	}
}

func copyService(src *types.Service) *types.Service {
	cp := *src
	cp.Environment = make(map[string]string, len(src.Environment))
	for k, v := range src.Environment {
		cp.Environment[k] = v
	}
	return &cp
}

func (a *Agent) Plan() (*types.Plan, error) {
	if !a.Connected {
		return nil, ErrNotConnected
	}
	return &a.CurrentPlan, nil
}

func (a *Agent) ServiceRunning(name string) (bool, error) {
	if !a.Connected {
		return false, ErrNotConnected
	}
	return a.Running[name], nil
}

func (a *Agent) Start(name string) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.StartCalls = append(a.StartCalls, name)
	a.Running[name] = true
	return nil
}

func (a *Agent) Stop(name string) error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.StopCalls = append(a.StopCalls, name)
	a.Running[name] = false
	return nil
}

func (a *Agent) Replan() error {
	if !a.Connected {
		return ErrNotConnected
	}
	a.ReplanCalls++
	return nil
}
