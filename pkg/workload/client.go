package workload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/canonical/jimm-operator/pkg/types"
)

// Client talks to the workload supervisor over its unix control socket.
// It implements the Agent interface.
type Client struct {
	httpc *http.Client
}

var _ Agent = (*Client)(nil)

// NewClient creates a client for the supervisor socket at the given
// path.
func NewClient(socketPath string) *Client {
	return &Client{
		httpc: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, "unix", socketPath)
				},
			},
		},
	}
}

// envelope is the supervisor's response wrapper.
type envelope struct {
	Type       string          `json:"type"`
	StatusCode int             `json:"status-code"`
	Status     string          `json:"status"`
	Result     json.RawMessage `json:"result"`
}

type errorResult struct {
	Message string `json:"message"`
}

func (c *Client) do(method, path string, query url.Values, body, result any) error {
	u := "http://localhost" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("supervisor request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode supervisor response: %w", err)
	}
	if env.Type == "error" || resp.StatusCode >= 400 {
		var er errorResult
		_ = json.Unmarshal(env.Result, &er)
		if er.Message == "" {
			er.Message = resp.Status
		}
		return fmt.Errorf("supervisor error: %s", er.Message)
	}
	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("failed to decode supervisor result: %w", err)
		}
	}
	return nil
}

// CanConnect reports whether the supervisor answers on its socket.
func (c *Client) CanConnect() bool {
	return c.do("GET", "/v1/health", nil, nil, nil) == nil
}

// Exists reports whether a path exists on the workload filesystem. Any
// supervisor failure, including unreachability, reads as false.
func (c *Client) Exists(path string) bool {
	var res struct {
		Exists bool `json:"exists"`
	}
	q := url.Values{"action": {"stat"}, "path": {path}}
	if err := c.do("GET", "/v1/files", q, nil, &res); err != nil {
		return false
	}
	return res.Exists
}

// Pull reads a file from the workload filesystem.
func (c *Client) Pull(path string) ([]byte, error) {
	var res struct {
		Content string `json:"content"`
	}
	q := url.Values{"action": {"read"}, "path": {path}}
	if err := c.do("GET", "/v1/files", q, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to pull %s: %w", path, err)
	}
	data, err := base64.StdEncoding.DecodeString(res.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", path, err)
	}
	return data, nil
}

// Push writes a file on the workload filesystem.
func (c *Client) Push(path string, data []byte, makeDirs bool) error {
	body := map[string]any{
		"action":    "write",
		"path":      path,
		"content":   base64.StdEncoding.EncodeToString(data),
		"make-dirs": makeDirs,
	}
	if err := c.do("POST", "/v1/files", nil, body, nil); err != nil {
		return fmt.Errorf("failed to push %s: %w", path, err)
	}
	return nil
}

// MakeDir creates a directory on the workload filesystem.
func (c *Client) MakeDir(path string, makeParents bool) error {
	body := map[string]any{
		"action":       "make-dir",
		"path":         path,
		"make-parents": makeParents,
	}
	if err := c.do("POST", "/v1/files", nil, body, nil); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemovePath removes a file or directory tree on the workload
// filesystem.
func (c *Client) RemovePath(path string) error {
	body := map[string]any{
		"action": "remove",
		"path":   path,
	}
	if err := c.do("POST", "/v1/files", nil, body, nil); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Exec runs a command on the workload. The supervisor runs the command
// to completion; Wait surfaces the exit code and captured stderr.
func (c *Client) Exec(argv []string) (ExecProcess, error) {
	var res struct {
		ExitCode int    `json:"exit-code"`
		Stderr   string `json:"stderr"`
	}
	body := map[string]any{"command": argv}
	if err := c.do("POST", "/v1/exec", nil, body, &res); err != nil {
		return nil, fmt.Errorf("failed to exec %v: %w", argv, err)
	}
	proc := &clientProcess{command: argv, exitCode: res.ExitCode, stderr: res.Stderr}
	return proc, nil
}

type clientProcess struct {
	command  []string
	exitCode int
	stderr   string
}

func (p *clientProcess) Wait() error {
	if p.exitCode != 0 {
		return &ExecError{Command: p.command, ExitCode: p.exitCode, Stderr: p.stderr}
	}
	return nil
}

// AddLayer submits a layer to the supervisor. The layer travels as a
// YAML document inside the JSON request.
func (c *Client) AddLayer(label string, layer *types.Layer, combine bool) error {
	data, err := yaml.Marshal(layer)
	if err != nil {
		return fmt.Errorf("failed to encode layer: %w", err)
	}
	body := map[string]any{
		"action":  "add",
		"label":   label,
		"combine": combine,
		"layer":   string(data),
	}
	if err := c.do("POST", "/v1/layers", nil, body, nil); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", label, err)
	}
	return nil
}

// Plan fetches the merged plan currently in effect.
func (c *Client) Plan() (*types.Plan, error) {
	var res string
	if err := c.do("GET", "/v1/plan", nil, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	var plan types.Plan
	if err := yaml.Unmarshal([]byte(res), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	return &plan, nil
}

// ServiceRunning reports whether the named service is active.
func (c *Client) ServiceRunning(name string) (bool, error) {
	var res []struct {
		Name    string `json:"name"`
		Current string `json:"current"`
	}
	q := url.Values{"names": {name}}
	if err := c.do("GET", "/v1/services", q, nil, &res); err != nil {
		return false, fmt.Errorf("failed to get service %s: %w", name, err)
	}
	for _, svc := range res {
		if svc.Name == name {
			return svc.Current == "active", nil
		}
	}
	return false, fmt.Errorf("service %s not found in plan", name)
}

// Start starts the named service.
func (c *Client) Start(name string) error {
	return c.serviceAction("start", name)
}

// Stop stops the named service.
func (c *Client) Stop(name string) error {
	return c.serviceAction("stop", name)
}

// Replan re-applies the current plan to running services.
func (c *Client) Replan() error {
	return c.serviceAction("replan", "")
}

func (c *Client) serviceAction(action, name string) error {
	body := map[string]any{"action": action}
	if name != "" {
		body["services"] = []string{name}
	}
	if err := c.do("POST", "/v1/services", nil, body, nil); err != nil {
		return fmt.Errorf("failed to %s service: %w", action, err)
	}
	return nil
}
