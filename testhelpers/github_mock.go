package testhelpers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub API
type MockGitHubServerConfig struct {
	Owner string
	Repo  string
	Token string
	// Runs maps branch names to workflow runs, newest first
	Runs map[string][]*github.WorkflowRun
	// Deployments maps environment names to deployments, newest first
	Deployments map[string][]*github.Deployment
	// DeploymentStatuses maps deployment ids to statuses, newest first
	DeploymentStatuses map[int64][]*github.DeploymentStatus
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Owner:              "owner",
		Repo:               "repo",
		Token:              "github-token",
		Runs:               make(map[string][]*github.WorkflowRun),
		Deployments:        make(map[string][]*github.Deployment),
		DeploymentStatuses: make(map[int64][]*github.DeploymentStatus),
	}
}

// AddRun registers a workflow run for branch. A zero took means the run
// is still in progress.
func (c *MockGitHubServerConfig) AddRun(branch, sha, conclusion string, started time.Time, took time.Duration) *github.WorkflowRun {
	run := &github.WorkflowRun{
		ID:           github.Int64(int64(len(c.Runs[branch]) + 1)),
		HeadBranch:   github.String(branch),
		HeadSHA:      github.String(sha),
		HTMLURL:      github.String("https://github.com/" + c.Owner + "/" + c.Repo + "/actions/runs/" + sha),
		CreatedAt:    &github.Timestamp{Time: started},
		RunStartedAt: &github.Timestamp{Time: started},
		Status:       github.String("in_progress"),
		HeadCommit: &github.HeadCommit{
			ID:        github.String(sha),
			Message:   github.String("work on " + branch),
			Timestamp: &github.Timestamp{Time: started},
			Author:    &github.CommitAuthor{Name: github.String("Jane Doe"), Email: github.String("jane@example.com")},
		},
		Repository: &github.Repository{HTMLURL: github.String("https://github.com/" + c.Owner + "/" + c.Repo)},
	}
	if took > 0 {
		run.Status = github.String("completed")
		run.Conclusion = github.String(conclusion)
		run.UpdatedAt = &github.Timestamp{Time: started.Add(took)}
	}
	c.Runs[branch] = append(c.Runs[branch], run)
	return run
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub
// Actions and Deployments endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()
	repoPath := "/repos/" + config.Owner + "/" + config.Repo

	authorized := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+config.Token {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Bad credentials"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET "+repoPath+"/actions/runs", authorized(func(w http.ResponseWriter, r *http.Request) {
		runs := config.Runs[r.URL.Query().Get("branch")]
		if status := r.URL.Query().Get("status"); status != "" {
			var filtered []*github.WorkflowRun
			for _, run := range runs {
				if run.GetStatus() == status || run.GetConclusion() == status {
					filtered = append(filtered, run)
				}
			}
			runs = filtered
		}
		runs = limit(runs, r)
		writeJSON(w, http.StatusOK, &github.WorkflowRuns{
			TotalCount:   github.Int(len(runs)),
			WorkflowRuns: runs,
		})
	}))

	mux.HandleFunc("GET "+repoPath+"/deployments", authorized(func(w http.ResponseWriter, r *http.Request) {
		deployments := limit(config.Deployments[r.URL.Query().Get("environment")], r)
		if deployments == nil {
			deployments = []*github.Deployment{}
		}
		writeJSON(w, http.StatusOK, deployments)
	}))

	mux.HandleFunc("GET "+repoPath+"/deployments/{id}/statuses", authorized(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		statuses := limit(config.DeploymentStatuses[id], r)
		if statuses == nil {
			statuses = []*github.DeploymentStatus{}
		}
		writeJSON(w, http.StatusOK, statuses)
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

func limit[T any](items []T, r *http.Request) []T {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage <= 0 || perPage >= len(items) {
		return items
	}
	return items[:perPage]
}
