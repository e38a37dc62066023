package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// MockSemaphoreConfig configures the behavior of a mock Semaphore API
type MockSemaphoreConfig struct {
	ProjectHash string
	AuthToken   string
	// Branches maps branch names to their status payload
	Branches map[string]map[string]any
	// BranchHistory maps branch names to earlier builds
	BranchHistory map[string][]map[string]any
	// Servers maps server names to their status payload
	Servers map[string]map[string]any
	// ServerHistory maps server names to earlier deploys
	ServerHistory map[string][]map[string]any
	// Failures maps a branch or server name to a status code to answer with
	Failures map[string]int

	mu       sync.Mutex
	requests []string
}

// NewMockSemaphoreConfig creates a mock config with defaults
func NewMockSemaphoreConfig() *MockSemaphoreConfig {
	return &MockSemaphoreConfig{
		ProjectHash:   "project-hash",
		AuthToken:     "semaphore-token",
		Branches:      make(map[string]map[string]any),
		BranchHistory: make(map[string][]map[string]any),
		Servers:       make(map[string]map[string]any),
		ServerHistory: make(map[string][]map[string]any),
		Failures:      make(map[string]int),
	}
}

// Requests returns the paths requested so far
func (c *MockSemaphoreConfig) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// SemaphoreBuild builds a status payload the way the Semaphore API reports
// it. A zero took leaves the build running.
func SemaphoreBuild(branch, result string, started time.Time, took time.Duration) map[string]any {
	build := map[string]any{
		"branch_name": branch,
		"result":      result,
		"build_url":   "https://semaphoreci.com/acme/shop/branches/" + branch + "/builds/1",
		"started_at":  started.Format(time.RFC3339),
		"commit": map[string]any{
			"id":           "0123456789abcdef",
			"url":          "https://github.com/acme/shop/commit/0123456789abcdef",
			"author_name":  "Jane Doe",
			"author_email": "jane@example.com",
			"message":      "Fix login",
			"timestamp":    started.Format(time.RFC3339),
		},
	}
	if took > 0 {
		build["finished_at"] = started.Add(took).Format(time.RFC3339)
	}
	return build
}

// AddBuild sets the latest build of branch
func (c *MockSemaphoreConfig) AddBuild(branch, result string, started time.Time, took time.Duration) {
	c.Branches[branch] = SemaphoreBuild(branch, result, started, took)
}

// AddDeploy sets the latest deploy to server
func (c *MockSemaphoreConfig) AddDeploy(server, result string, started time.Time, took time.Duration) {
	deploy := SemaphoreBuild("main", result, started, took)
	deploy["server_name"] = server
	deploy["server_html_url"] = "https://semaphoreci.com/acme/shop/servers/" + server
	c.Servers[server] = deploy
}

// NewMockSemaphoreServer creates an httptest server mocking the Semaphore v1 API
func NewMockSemaphoreServer(t *testing.T, config *MockSemaphoreConfig) *httptest.Server {
	if config == nil {
		config = NewMockSemaphoreConfig()
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.requests = append(config.requests, r.URL.Path)
		config.mu.Unlock()

		if r.URL.Query().Get("auth_token") != config.AuthToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}

		prefix := "/projects/" + config.ProjectHash + "/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, prefix), "/")

		var name string
		var status map[string]any
		var history []map[string]any
		historyKey := "builds"
		isStatus := parts[len(parts)-1] == "status"
		if isStatus {
			parts = parts[:len(parts)-1]
		}
		switch {
		case len(parts) == 2 && parts[0] == "servers":
			name = parts[1]
			status = config.Servers[name]
			history = config.ServerHistory[name]
			historyKey = "deploys"
		case len(parts) == 1:
			name = parts[0]
			status = config.Branches[name]
			history = config.BranchHistory[name]
		default:
			http.NotFound(w, r)
			return
		}

		if code, ok := config.Failures[name]; ok {
			writeJSON(w, code, map[string]any{"message": http.StatusText(code)})
			return
		}
		if isStatus {
			if status == nil {
				http.NotFound(w, r)
				return
			}
			writeJSON(w, http.StatusOK, status)
			return
		}
		if history == nil {
			history = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, map[string]any{historyKey: history})
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
