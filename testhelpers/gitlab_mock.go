package testhelpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

// MockGitLabConfig configures the behavior of a mock GitLab API
type MockGitLabConfig struct {
	Project string
	Token   string
	// Pipelines lists every pipeline, newest first
	Pipelines []map[string]any
	// Deployments maps environment names to deployments, newest first
	Deployments map[string][]map[string]any
}

// NewMockGitLabConfig creates a mock config with defaults
func NewMockGitLabConfig() *MockGitLabConfig {
	return &MockGitLabConfig{
		Project:     "42",
		Token:       "gitlab-token",
		Deployments: make(map[string][]map[string]any),
	}
}

// AddPipeline appends a pipeline for ref and returns its id. A zero took
// leaves the pipeline running.
func (c *MockGitLabConfig) AddPipeline(ref, sha, status string, started time.Time, took time.Duration) int {
	id := len(c.Pipelines) + 100
	pipeline := map[string]any{
		"id":         id,
		"iid":        id,
		"ref":        ref,
		"sha":        sha,
		"status":     status,
		"web_url":    fmt.Sprintf("https://gitlab.example.com/group/project/-/pipelines/%d", id),
		"created_at": started.Format(time.RFC3339),
		"started_at": started.Format(time.RFC3339),
		"user":       map[string]any{"name": "Jane Doe", "username": "jane"},
	}
	if took > 0 {
		pipeline["finished_at"] = started.Add(took).Format(time.RFC3339)
	}
	c.Pipelines = append(c.Pipelines, pipeline)
	return id
}

// NewMockGitLabServer creates an httptest server mocking the GitLab v4
// pipelines and deployments endpoints
func NewMockGitLabServer(t *testing.T, config *MockGitLabConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitLabConfig()
	}

	mux := http.NewServeMux()
	projectPath := "/api/v4/projects/" + config.Project

	authorized := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("PRIVATE-TOKEN") != config.Token {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "401 Unauthorized"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET "+projectPath+"/pipelines", authorized(func(w http.ResponseWriter, r *http.Request) {
		ref := r.URL.Query().Get("ref")
		status := r.URL.Query().Get("status")
		matches := []map[string]any{}
		for _, p := range config.Pipelines {
			if ref != "" && p["ref"] != ref {
				continue
			}
			if status != "" && p["status"] != status {
				continue
			}
			matches = append(matches, p)
		}
		writeJSON(w, http.StatusOK, limit(matches, r))
	}))

	mux.HandleFunc("GET "+projectPath+"/pipelines/{id}", authorized(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		for _, p := range config.Pipelines {
			if p["id"] == id {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "404 Not found"})
	}))

	mux.HandleFunc("GET "+projectPath+"/deployments", authorized(func(w http.ResponseWriter, r *http.Request) {
		deployments := config.Deployments[r.URL.Query().Get("environment")]
		if deployments == nil {
			deployments = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, limit(deployments, r))
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
