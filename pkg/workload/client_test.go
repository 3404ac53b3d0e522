package workload

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/canonical/jimm-operator/pkg/types"
)

// stubSupervisor is a minimal in-process supervisor serving the control
// socket protocol.
type stubSupervisor struct {
	files    map[string][]byte
	layers   []string
	actions  []string
	running  bool
	exitCode int
	stderr   string
}

func respond(w http.ResponseWriter, result any) {
	data, _ := json.Marshal(result)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":        "sync",
		"status-code": 200,
		"status":      "OK",
		"result":      json.RawMessage(data),
	})
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":        "error",
		"status-code": code,
		"result":      map[string]string{"message": message},
	})
}

func (s *stubSupervisor) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]bool{"healthy": true})
	})
	mux.HandleFunc("/v1/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			path := r.URL.Query().Get("path")
			switch r.URL.Query().Get("action") {
			case "stat":
				_, ok := s.files[path]
				respond(w, map[string]bool{"exists": ok})
			case "read":
				data, ok := s.files[path]
				if !ok {
					respondError(w, 404, "no such file")
					return
				}
				respond(w, map[string]string{"content": base64.StdEncoding.EncodeToString(data)})
			}
			return
		}
		var req struct {
			Action  string `json:"action"`
			Path    string `json:"path"`
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req.Action {
		case "write":
			data, _ := base64.StdEncoding.DecodeString(req.Content)
			s.files[req.Path] = data
		case "remove":
			delete(s.files, req.Path)
		}
		respond(w, nil)
	})
	mux.HandleFunc("/v1/exec", func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"exit-code": s.exitCode, "stderr": s.stderr})
	})
	mux.HandleFunc("/v1/layers", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Layer string `json:"layer"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.layers = append(s.layers, req.Layer)
		respond(w, nil)
	})
	mux.HandleFunc("/v1/plan", func(w http.ResponseWriter, r *http.Request) {
		if len(s.layers) == 0 {
			respond(w, "")
			return
		}
		respond(w, s.layers[len(s.layers)-1])
	})
	mux.HandleFunc("/v1/services", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			current := "inactive"
			if s.running {
				current = "active"
			}
			respond(w, []map[string]string{{"name": "jimm", "current": current}})
			return
		}
		var req struct {
			Action string `json:"action"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.actions = append(s.actions, req.Action)
		respond(w, nil)
	})
	return mux
}

func startStub(t *testing.T) (*stubSupervisor, *Client) {
	t.Helper()
	stub := &stubSupervisor{files: make(map[string][]byte)}
	socket := filepath.Join(t.TempDir(), "supervisor.sock")
	l, err := net.Listen("unix", socket)
	require.NoError(t, err)
	srv := &http.Server{Handler: stub.handler()}
	go srv.Serve(l)
	t.Cleanup(func() { _ = srv.Close() })
	return stub, NewClient(socket)
}

func TestClientCanConnect(t *testing.T) {
	_, client := startStub(t)
	assert.True(t, client.CanConnect())
}

func TestClientCanConnectNoSocket(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "absent.sock"))
	assert.False(t, client.CanConnect())
}

func TestClientFiles(t *testing.T) {
	stub, client := startStub(t)

	assert.False(t, client.Exists("/root/config/agent.json"))

	require.NoError(t, client.Push("/root/config/agent.json", []byte(`{"key":{}}`), true))
	assert.True(t, client.Exists("/root/config/agent.json"))

	data, err := client.Pull("/root/config/agent.json")
	require.NoError(t, err)
	assert.Equal(t, `{"key":{}}`, string(data))

	require.NoError(t, client.RemovePath("/root/config/agent.json"))
	assert.False(t, client.Exists("/root/config/agent.json"))
	_, ok := stub.files["/root/config/agent.json"]
	assert.False(t, ok)
}

func TestClientPullMissingFile(t *testing.T) {
	_, client := startStub(t)
	_, err := client.Pull("/absent")
	assert.Error(t, err)
}

func TestClientExec(t *testing.T) {
	stub, client := startStub(t)

	proc, err := client.Exec([]string{"tar", "xvf", "/root/dashboard/dashboard.tar.bz2"})
	require.NoError(t, err)
	require.NoError(t, proc.Wait())

	stub.exitCode = 2
	stub.stderr = "tar: invalid archive"
	proc, err = client.Exec([]string{"tar", "xvf", "/bad"})
	require.NoError(t, err)
	err = proc.Wait()
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 2, execErr.ExitCode)
	assert.Equal(t, "tar: invalid archive", execErr.Stderr)
}

func TestClientLayerRoundTrip(t *testing.T) {
	_, client := startStub(t)

	layer := &types.Layer{
		Services: map[string]*types.Service{
			"jimm": {
				Override:    types.OverrideMerge,
				Command:     "/root/jimmsrv",
				Startup:     types.StartupDisabled,
				Environment: map[string]string{"JIMM_LISTEN_ADDR": ":8080"},
			},
		},
	}
	require.NoError(t, client.AddLayer("jimm", layer, true))

	plan, err := client.Plan()
	require.NoError(t, err)
	svc := plan.Service("jimm")
	require.NotNil(t, svc)
	assert.Equal(t, "/root/jimmsrv", svc.Command)
	assert.Equal(t, ":8080", svc.Environment["JIMM_LISTEN_ADDR"])
}

func TestClientServiceLifecycle(t *testing.T) {
	stub, client := startStub(t)

	running, err := client.ServiceRunning("jimm")
	require.NoError(t, err)
	assert.False(t, running)

	stub.running = true
	running, err = client.ServiceRunning("jimm")
	require.NoError(t, err)
	assert.True(t, running)

	require.NoError(t, client.Start("jimm"))
	require.NoError(t, client.Stop("jimm"))
	require.NoError(t, client.Replan())
	assert.Equal(t, []string{"start", "stop", "replan"}, stub.actions)
}

func TestLayerYAMLShape(t *testing.T) {
	layer := &types.Layer{
		Summary: "jimm layer",
		Services: map[string]*types.Service{
			"jimm": {Override: types.OverrideMerge, Command: "/root/jimmsrv"},
		},
	}
	data, err := yaml.Marshal(layer)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	services := decoded["services"].(map[string]any)
	svc := services["jimm"].(map[string]any)
	assert.Equal(t, "merge", svc["override"])
	assert.Equal(t, "/root/jimmsrv", svc["command"])
}
