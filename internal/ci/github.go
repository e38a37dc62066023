package ci

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	storyerrors "gitstory.dev/gitstory/internal/errors"
)

// GitHubConfig locates a repository using GitHub Actions
type GitHubConfig struct {
	Token string
	// Repository is "owner/repo"
	Repository string
	// BaseURL is the REST API root for GitHub Enterprise, empty for github.com
	BaseURL string
	// HistorySize is how many earlier runs feed the duration estimate
	HistorySize int
}

// GitHub reads workflow runs and deployments from GitHub
type GitHub struct {
	client        *github.Client
	base          *Client
	owner         string
	repo          string
	cfg           GitHubConfig
	notConfigured *onceWarning
}

// NewGitHub creates a GitHub Actions provider
func NewGitHub(ctx context.Context, base *Client, cfg GitHubConfig) (*GitHub, error) {
	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if cfg.Repository != "" && (!ok || owner == "" || repo == "") {
		return nil, storyerrors.NewUserInputError("github_repository must be owner/repo, got %q", cfg.Repository)
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}

	httpClient := base.StandardClient()
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, httpClient), ts)
	}
	client := github.NewClient(httpClient)

	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse GitHub base URL %s: %w", cfg.BaseURL, err)
		}
		client.BaseURL = baseURL
	}

	return &GitHub{
		client:        client,
		base:          base,
		owner:         owner,
		repo:          repo,
		cfg:           cfg,
		notConfigured: newOnceWarning(base.logger, "GitHub is not configured, set GITHUB_TOKEN and github_repository"),
	}, nil
}

// Name implements Provider
func (g *GitHub) Name() string {
	return "GitHub"
}

func (g *GitHub) configured() bool {
	if g.cfg.Token == "" || g.owner == "" {
		g.notConfigured.trigger()
		return false
	}
	return true
}

// BranchStatus implements Provider with the latest workflow run of branch
func (g *GitHub) BranchStatus(ctx context.Context, branch string) (*Status, error) {
	if !g.configured() {
		return nil, nil
	}
	runs, resp, err := g.client.Actions.ListRepositoryWorkflowRuns(ctx, g.owner, g.repo, &github.ListWorkflowRunsOptions{
		Branch:      branch,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	if len(runs.WorkflowRuns) == 0 {
		return &Status{Result: ResultUnknown, BranchName: branch, Source: g.Name()}, nil
	}
	status := runToStatus(runs.WorkflowRuns[0])
	status.BranchName = branch
	return &status, nil
}

// ServerStatus implements Provider with the latest deployment to the
// environment named server
func (g *GitHub) ServerStatus(ctx context.Context, server string) (*Status, error) {
	if !g.configured() {
		return nil, nil
	}
	deployments, resp, err := g.client.Repositories.ListDeployments(ctx, g.owner, g.repo, &github.DeploymentsListOptions{
		Environment: server,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	if len(deployments) == 0 {
		return &Status{Result: ResultUnknown, ServerName: server, Source: g.Name()}, nil
	}
	deployment := deployments[0]

	statuses, resp, err := g.client.Repositories.ListDeploymentStatuses(ctx, g.owner, g.repo, deployment.GetID(), &github.ListOptions{PerPage: 1})
	if err != nil {
		return nil, g.wrapError(resp, err)
	}

	status := Status{
		Result:     ResultPending,
		StartedAt:  deployment.GetCreatedAt().Time,
		ServerName: server,
		Source:     g.Name(),
		Commit: Commit{
			ID:         deployment.GetSHA(),
			AuthorName: deployment.GetCreator().GetLogin(),
		},
	}
	if len(statuses) > 0 {
		latest := statuses[0]
		status.Result = deploymentResult(latest.GetState())
		status.ServerHTMLURL = latest.GetLogURL()
		if status.Result != ResultPending {
			status.FinishedAt = latest.GetCreatedAt().Time
		}
	}
	return &status, nil
}

// History implements Provider with the recent completed runs of the branch
func (g *GitHub) History(ctx context.Context, status *Status) ([]Status, error) {
	if status == nil || status.BranchName == "" || !g.configured() {
		return nil, nil
	}
	runs, resp, err := g.client.Actions.ListRepositoryWorkflowRuns(ctx, g.owner, g.repo, &github.ListWorkflowRunsOptions{
		Branch:      status.BranchName,
		Status:      "completed",
		ListOptions: github.ListOptions{PerPage: g.cfg.HistorySize},
	})
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	history := make([]Status, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		history = append(history, runToStatus(run))
	}
	return history, nil
}

func (g *GitHub) wrapError(resp *github.Response, err error) error {
	apiURL := g.client.BaseURL.String()
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.Request != nil {
		apiURL = errResp.Response.Request.URL.String()
	}
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		return g.base.authError(apiURL, "GITHUB_TOKEN")
	}
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	return storyerrors.NewTransportError(apiURL, statusCode, err)
}

func runToStatus(run *github.WorkflowRun) Status {
	status := Status{
		Result:     workflowResult(run.GetStatus(), run.GetConclusion()),
		StartedAt:  run.GetRunStartedAt().Time,
		BranchName: run.GetHeadBranch(),
		BuildURL:   run.GetHTMLURL(),
		Source:     "GitHub",
		Commit: Commit{
			ID: run.GetHeadSHA(),
		},
	}
	if status.StartedAt.IsZero() {
		status.StartedAt = run.GetCreatedAt().Time
	}
	if run.GetStatus() == "completed" {
		status.FinishedAt = run.GetUpdatedAt().Time
	}
	if head := run.GetHeadCommit(); head != nil {
		status.Commit.Message = head.GetMessage()
		status.Commit.AuthorName = head.GetAuthor().GetName()
		status.Commit.AuthorEmail = head.GetAuthor().GetEmail()
		if ts := head.GetTimestamp(); !ts.IsZero() {
			status.Commit.Timestamp = ts.Format(time.RFC3339)
		}
	}
	if repo := run.GetRepository(); repo != nil && status.Commit.ID != "" {
		status.Commit.URL = repo.GetHTMLURL() + "/commit/" + status.Commit.ID
	}
	return status
}

func workflowResult(status, conclusion string) Result {
	if status != "completed" {
		return ResultPending
	}
	switch conclusion {
	case "success":
		return ResultPassed
	case "failure", "timed_out", "startup_failure":
		return ResultFailed
	case "cancelled", "skipped":
		return ResultCanceled
	default:
		return ResultUnknown
	}
}

func deploymentResult(state string) Result {
	switch state {
	case "success":
		return ResultPassed
	case "failure", "error":
		return ResultFailed
	case "inactive":
		return ResultCanceled
	case "pending", "queued", "in_progress":
		return ResultPending
	default:
		return ResultUnknown
	}
}
