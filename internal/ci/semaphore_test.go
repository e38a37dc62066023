package ci_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/ci"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/testhelpers"
)

func semaphoreBuild(branch, result string, started time.Time, took time.Duration) map[string]any {
	build := map[string]any{
		"branch_name": branch,
		"result":      result,
		"build_url":   "https://semaphoreci.com/org/project/branches/" + branch + "/builds/1",
		"started_at":  started.Format(time.RFC3339),
		"commit": map[string]any{
			"id":           "0123456789abcdef",
			"url":          "https://github.com/org/project/commit/0123456789abcdef",
			"author_name":  "Jane Doe",
			"author_email": "jane@example.com",
			"message":      "Fix login",
			"timestamp":    "2024-03-01T11:00:00Z",
		},
	}
	if took > 0 {
		build["finished_at"] = started.Add(took).Format(time.RFC3339)
	}
	return build
}

func newSemaphore(t *testing.T, config *testhelpers.MockSemaphoreConfig) *ci.Semaphore {
	server := testhelpers.NewMockSemaphoreServer(t, config)
	client := ci.NewClient(ci.ClientOptions{TokenHint: "env var SEMAPHORE_AUTH_TOKEN"})
	return ci.NewSemaphore(client, ci.SemaphoreConfig{
		APIURL:      server.URL,
		ProjectHash: config.ProjectHash,
		AuthToken:   config.AuthToken,
	})
}

func TestSemaphore_BranchStatus(t *testing.T) {
	config := testhelpers.NewMockSemaphoreConfig()
	branch := "story_fix-login_42"
	config.Branches[branch] = semaphoreBuild(branch, "passed", now.Add(-time.Hour), 4*time.Minute)
	provider := newSemaphore(t, config)

	status, err := provider.BranchStatus(context.Background(), branch)
	require.NoError(t, err)
	require.Equal(t, ci.ResultPassed, status.Result)
	require.Equal(t, branch, status.EntityName())
	require.Equal(t, "0123456789", status.ShortSHA())
	require.Equal(t, "Jane Doe", status.Commit.AuthorName)
	require.Equal(t, 4*time.Minute, status.Elapsed(now))
	require.Contains(t, status.HistoryURL, "/projects/project-hash/"+branch)
	require.Contains(t, status.HistoryURL, "auth_token=")
}

func TestSemaphore_History(t *testing.T) {
	config := testhelpers.NewMockSemaphoreConfig()
	branch := "story_fix-login_42"
	config.Branches[branch] = semaphoreBuild(branch, "pending", now.Add(-time.Minute), 0)
	config.BranchHistory[branch] = []map[string]any{
		semaphoreBuild(branch, "passed", now.Add(-3*time.Hour), 4*time.Minute),
		semaphoreBuild(branch, "failed", now.Add(-2*time.Hour), time.Minute),
		semaphoreBuild(branch, "passed", now.Add(-time.Hour), 6*time.Minute),
	}
	provider := newSemaphore(t, config)

	status, err := provider.BranchStatus(context.Background(), branch)
	require.NoError(t, err)
	history, err := provider.History(context.Background(), status)
	require.NoError(t, err)
	require.Len(t, history, 3)

	est := ci.Estimator{Now: fixedNow}
	require.Equal(t, 5*time.Minute, est.Estimate(*status, history))
}

func TestSemaphore_ServerStatus(t *testing.T) {
	config := testhelpers.NewMockSemaphoreConfig()
	deploy := semaphoreBuild("", "failed", now.Add(-time.Hour), 2*time.Minute)
	delete(deploy, "branch_name")
	deploy["server_name"] = "production"
	deploy["server_html_url"] = "https://semaphoreci.com/org/project/servers/production/deploys/9"
	config.Servers["production"] = deploy
	provider := newSemaphore(t, config)

	status, err := provider.ServerStatus(context.Background(), "production")
	require.NoError(t, err)
	require.Equal(t, ci.ResultFailed, status.Result)
	require.Equal(t, "production", status.EntityName())
	require.Equal(t, "https://semaphoreci.com/org/project/servers/production/deploys/9", status.EntityURL())
	require.Contains(t, status.HistoryURL, "/servers/production")
}

func TestSemaphore_Unauthorized(t *testing.T) {
	config := testhelpers.NewMockSemaphoreConfig()
	server := testhelpers.NewMockSemaphoreServer(t, config)
	client := ci.NewClient(ci.ClientOptions{TokenHint: "env var SEMAPHORE_AUTH_TOKEN"})
	provider := ci.NewSemaphore(client, ci.SemaphoreConfig{APIURL: server.URL, ProjectHash: config.ProjectHash, AuthToken: "wrong"})

	_, err := provider.BranchStatus(context.Background(), "story_fix-login_42")
	require.True(t, errors.Is(err, storyerrors.ErrUnauthorized))
	require.Contains(t, err.Error(), "SEMAPHORE_AUTH_TOKEN invalid?")
}

func TestSemaphore_NotConfigured(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	provider := ci.NewSemaphore(ci.NewClient(ci.ClientOptions{Logger: logger}), ci.SemaphoreConfig{})

	for _, branch := range []string{"story_fix-login_42", "story_add-search_7", "story_broken_9"} {
		status, err := provider.BranchStatus(context.Background(), branch)
		require.NoError(t, err)
		require.Nil(t, status)
	}
	status, err := provider.ServerStatus(context.Background(), "production")
	require.NoError(t, err)
	require.Nil(t, status)
	require.Equal(t, 1, strings.Count(logs.String(), "Semaphore is not configured"))
}

func TestReporter(t *testing.T) {
	config := testhelpers.NewMockSemaphoreConfig()
	building := "story_fix-login_42"
	config.Branches[building] = semaphoreBuild(building, "pending", now.Add(-2*time.Minute), 0)
	config.BranchHistory[building] = []map[string]any{
		semaphoreBuild(building, "passed", now.Add(-time.Hour), 5*time.Minute),
	}
	done := "story_add-search_7"
	config.Branches[done] = semaphoreBuild(done, "passed", now.Add(-time.Hour), 3*time.Minute)
	config.Failures["story_broken_9"] = http.StatusInternalServerError

	provider := newSemaphore(t, config)
	reporter := ci.NewReporter(provider, ci.Estimator{Now: fixedNow}, nil)

	text, err := reporter.Branch(context.Background(), building)
	require.NoError(t, err)
	require.Contains(t, text, building+" #0123456789 building for 00:02:00, about 00:03:00 left of 00:05:00")
	require.Contains(t, text, "Semaphore: https://semaphoreci.com/org/project/branches/"+building)

	text, err = reporter.Branch(context.Background(), done)
	require.NoError(t, err)
	require.Contains(t, text, done+" #0123456789 passed after 00:03:00")
	require.Contains(t, text, "Authored: ")
	require.Contains(t, text, "Jane Doe <jane@example.com>")

	_, err = reporter.Branch(context.Background(), "story_broken_9")
	require.True(t, errors.Is(err, storyerrors.ErrTransport))

	historyRequests := 0
	for _, path := range config.Requests() {
		if path == "/projects/project-hash/"+done {
			historyRequests++
		}
	}
	require.Zero(t, historyRequests, "finished runs do not need history")
}
