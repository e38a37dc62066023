package testhelpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockTrackerConfig configures the behavior of a mock Pivotal Tracker API
type MockTrackerConfig struct {
	Project string
	Token   string
	// Stories maps story ids to story payloads
	Stories map[int]map[string]any
	// Owners maps story ids to owner payloads
	Owners map[int][]map[string]any
}

// NewMockTrackerConfig creates a mock config with defaults
func NewMockTrackerConfig() *MockTrackerConfig {
	return &MockTrackerConfig{
		Project: "1234",
		Token:   "tracker-token",
		Stories: make(map[int]map[string]any),
		Owners:  make(map[int][]map[string]any),
	}
}

// AddStory registers a story with the given name
func (c *MockTrackerConfig) AddStory(id int, name string) {
	c.Stories[id] = map[string]any{
		"id":            id,
		"name":          name,
		"current_state": "started",
		"story_type":    "feature",
		"estimate":      2,
		"url":           fmt.Sprintf("https://www.pivotaltracker.com/story/show/%d", id),
	}
}

// NewMockTrackerServer creates an httptest server mocking the Pivotal Tracker v5 API
func NewMockTrackerServer(t *testing.T, config *MockTrackerConfig) *httptest.Server {
	if config == nil {
		config = NewMockTrackerConfig()
	}

	mux := http.NewServeMux()
	authorized := func(next func(w http.ResponseWriter, r *http.Request, id int)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-TrackerToken") != config.Token {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"code": "invalid_authentication"})
				return
			}
			if r.PathValue("project") != config.Project {
				http.NotFound(w, r)
				return
			}
			var id int
			if _, err := fmt.Sscanf(r.PathValue("id"), "%d", &id); err != nil {
				http.NotFound(w, r)
				return
			}
			next(w, r, id)
		}
	}

	mux.HandleFunc("GET /projects/{project}/stories/{id}", authorized(func(w http.ResponseWriter, r *http.Request, id int) {
		story, ok := config.Stories[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"code": "unfound_resource"})
			return
		}
		writeJSON(w, http.StatusOK, story)
	}))
	mux.HandleFunc("GET /projects/{project}/stories/{id}/owners", authorized(func(w http.ResponseWriter, r *http.Request, id int) {
		owners := config.Owners[id]
		if owners == nil {
			owners = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, owners)
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
