package ci_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/ci"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/testhelpers"
)

func newGitHub(t *testing.T, config *testhelpers.MockGitHubServerConfig, token string) *ci.GitHub {
	server := testhelpers.NewMockGitHubServer(t, config)
	provider, err := ci.NewGitHub(context.Background(), ci.NewClient(ci.ClientOptions{}), ci.GitHubConfig{
		Token:      token,
		Repository: config.Owner + "/" + config.Repo,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)
	return provider
}

func TestGitHub_BranchStatusAndHistory(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	branch := "story_fix-login_42"
	config.AddRun(branch, "0123456789abcdef", "", now.Add(-2*time.Minute), 0)
	config.AddRun(branch, "fedcba9876543210", "success", now.Add(-3*time.Hour), 4*time.Minute)
	config.AddRun(branch, "aaaaaaaaaaaaaaaa", "failure", now.Add(-2*time.Hour), time.Minute)
	config.AddRun(branch, "bbbbbbbbbbbbbbbb", "success", now.Add(-time.Hour), 6*time.Minute)
	provider := newGitHub(t, config, config.Token)

	status, err := provider.BranchStatus(context.Background(), branch)
	require.NoError(t, err)
	require.Equal(t, ci.ResultPending, status.Result)
	require.True(t, status.Building())
	require.Equal(t, "0123456789", status.ShortSHA())
	require.Equal(t, "Jane Doe", status.Commit.AuthorName)
	require.Equal(t, "https://github.com/owner/repo/commit/0123456789abcdef", status.Commit.URL)

	history, err := provider.History(context.Background(), status)
	require.NoError(t, err)
	require.Len(t, history, 3)

	est := ci.Estimator{Now: fixedNow}
	require.Equal(t, 5*time.Minute, est.Estimate(*status, history))
}

func TestGitHub_NoRuns(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	provider := newGitHub(t, config, config.Token)

	status, err := provider.BranchStatus(context.Background(), "story_new_1")
	require.NoError(t, err)
	require.Equal(t, ci.ResultUnknown, status.Result)
	require.Equal(t, "story_new_1", status.EntityName())
}

func TestGitHub_ServerStatus(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.Deployments["production"] = []*github.Deployment{{
		ID:        github.Int64(9),
		SHA:       github.String("0123456789abcdef"),
		CreatedAt: &github.Timestamp{Time: now.Add(-10 * time.Minute)},
		Creator:   &github.User{Login: github.String("jane")},
	}}
	config.DeploymentStatuses[9] = []*github.DeploymentStatus{{
		State:     github.String("success"),
		LogURL:    github.String("https://github.com/owner/repo/actions/runs/9"),
		CreatedAt: &github.Timestamp{Time: now.Add(-7 * time.Minute)},
	}}
	provider := newGitHub(t, config, config.Token)

	status, err := provider.ServerStatus(context.Background(), "production")
	require.NoError(t, err)
	require.Equal(t, ci.ResultPassed, status.Result)
	require.Equal(t, "production", status.EntityName())
	require.Equal(t, 3*time.Minute, status.Elapsed(now))
	require.Equal(t, "https://github.com/owner/repo/actions/runs/9", status.EntityURL())
}

func TestGitHub_Unauthorized(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	provider := newGitHub(t, config, "wrong")

	_, err := provider.BranchStatus(context.Background(), "story_fix-login_42")
	require.True(t, errors.Is(err, storyerrors.ErrUnauthorized))
	require.Contains(t, err.Error(), "GITHUB_TOKEN invalid?")
}

func TestGitHub_UnauthorizedNamesTokenHint(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	server := testhelpers.NewMockGitHubServer(t, config)
	client := ci.NewClient(ci.ClientOptions{TokenHint: "env var GIT_STORY_GITHUB_TOKEN"})
	provider, err := ci.NewGitHub(context.Background(), client, ci.GitHubConfig{
		Token:      "wrong",
		Repository: config.Owner + "/" + config.Repo,
		BaseURL:    server.URL,
	})
	require.NoError(t, err)

	_, err = provider.BranchStatus(context.Background(), "story_fix-login_42")
	require.True(t, errors.Is(err, storyerrors.ErrUnauthorized))
	require.Contains(t, err.Error(), "env var GIT_STORY_GITHUB_TOKEN invalid?")
}

func TestGitHub_RetriesThroughClient(t *testing.T) {
	var calls atomic.Int32
	var auth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		auth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"head_branch":"story_fix-login_42","head_sha":"0123456789abcdef","status":"completed","conclusion":"success"}]}`))
	}))
	t.Cleanup(server.Close)

	provider, err := ci.NewGitHub(context.Background(), ci.NewClient(ci.ClientOptions{RetryMax: 1}), ci.GitHubConfig{
		Token:      "token",
		Repository: "owner/repo",
		BaseURL:    server.URL,
	})
	require.NoError(t, err)

	status, err := provider.BranchStatus(context.Background(), "story_fix-login_42")
	require.NoError(t, err)
	require.Equal(t, ci.ResultPassed, status.Result)
	require.Equal(t, int32(2), calls.Load())
	require.Equal(t, "Bearer token", auth.Load())
}

func TestGitHub_NotConfigured(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	provider, err := ci.NewGitHub(context.Background(), ci.NewClient(ci.ClientOptions{Logger: logger}), ci.GitHubConfig{})
	require.NoError(t, err)

	for range 3 {
		status, err := provider.BranchStatus(context.Background(), "story_fix-login_42")
		require.NoError(t, err)
		require.Nil(t, status)
	}
	require.Equal(t, 1, strings.Count(logs.String(), "GitHub is not configured"))
}

func TestGitHub_InvalidRepository(t *testing.T) {
	_, err := ci.NewGitHub(context.Background(), ci.NewClient(ci.ClientOptions{}), ci.GitHubConfig{Repository: "just-a-name"})
	require.True(t, errors.Is(err, storyerrors.ErrUserInput))
}
