package ci

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	storyerrors "gitstory.dev/gitstory/internal/errors"
)

// GitLabConfig locates a project using GitLab pipelines
type GitLabConfig struct {
	Token string
	// Project is the numeric id or "group/project" path
	Project string
	// BaseURL is the API root of a self-hosted instance, e.g. https://gitlab.example.com/api/v4/
	BaseURL     string
	HistorySize int
}

// GitLab reads pipelines and environment deployments from GitLab
type GitLab struct {
	client        *gitlab.Client
	base          *Client
	cfg           GitLabConfig
	notConfigured *onceWarning
}

// NewGitLab creates a GitLab pipelines provider
func NewGitLab(base *Client, cfg GitLabConfig) (*GitLab, error) {
	opts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(base.http.HTTPClient),
		gitlab.WithCustomRetryMax(base.http.RetryMax),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 20
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GitLab client: %w", err)
	}
	return &GitLab{
		client:        client,
		base:          base,
		cfg:           cfg,
		notConfigured: newOnceWarning(base.logger, "GitLab is not configured, set GITLAB_TOKEN and gitlab_project"),
	}, nil
}

// Name implements Provider
func (g *GitLab) Name() string {
	return "GitLab"
}

func (g *GitLab) configured() bool {
	if g.cfg.Token == "" || g.cfg.Project == "" {
		g.notConfigured.trigger()
		return false
	}
	return true
}

// BranchStatus implements Provider with the latest pipeline for branch
func (g *GitLab) BranchStatus(ctx context.Context, branch string) (*Status, error) {
	if !g.configured() {
		return nil, nil
	}
	infos, resp, err := g.client.Pipelines.ListProjectPipelines(g.cfg.Project, &gitlab.ListProjectPipelinesOptions{
		Ref:         gitlab.Ptr(branch),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	if len(infos) == 0 {
		return &Status{Result: ResultUnknown, BranchName: branch, Source: g.Name()}, nil
	}

	pipeline, resp, err := g.client.Pipelines.GetPipeline(g.cfg.Project, infos[0].ID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	status := pipelineToStatus(pipeline)
	status.BranchName = branch
	return &status, nil
}

// ServerStatus implements Provider with the last deployment to the
// environment named server
func (g *GitLab) ServerStatus(ctx context.Context, server string) (*Status, error) {
	if !g.configured() {
		return nil, nil
	}
	deployments, resp, err := g.client.Deployments.ListProjectDeployments(g.cfg.Project, &gitlab.ListProjectDeploymentsOptions{
		Environment: gitlab.Ptr(server),
		OrderBy:     gitlab.Ptr("created_at"),
		Sort:        gitlab.Ptr("desc"),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	if len(deployments) == 0 || deployments[0].Deployable.Pipeline.ID == 0 {
		return &Status{Result: ResultUnknown, ServerName: server, Source: g.Name()}, nil
	}

	pipeline, resp, err := g.client.Pipelines.GetPipeline(g.cfg.Project, deployments[0].Deployable.Pipeline.ID, gitlab.WithContext(ctx))
	if err != nil {
		return nil, g.wrapError(resp, err)
	}
	status := pipelineToStatus(pipeline)
	status.BranchName = ""
	status.ServerName = server
	status.ServerHTMLURL = status.BuildURL
	return &status, nil
}

// History implements Provider with the recent successful pipelines of the branch
func (g *GitLab) History(ctx context.Context, status *Status) ([]Status, error) {
	if status == nil || status.BranchName == "" || !g.configured() {
		return nil, nil
	}
	infos, resp, err := g.client.Pipelines.ListProjectPipelines(g.cfg.Project, &gitlab.ListProjectPipelinesOptions{
		Ref:         gitlab.Ptr(status.BranchName),
		Status:      gitlab.Ptr(gitlab.Success),
		ListOptions: gitlab.ListOptions{PerPage: int64(g.cfg.HistorySize)},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, g.wrapError(resp, err)
	}

	history := make([]Status, 0, len(infos))
	for _, info := range infos {
		pipeline, resp, err := g.client.Pipelines.GetPipeline(g.cfg.Project, info.ID, gitlab.WithContext(ctx))
		if err != nil {
			return nil, g.wrapError(resp, err)
		}
		history = append(history, pipelineToStatus(pipeline))
	}
	return history, nil
}

func (g *GitLab) wrapError(resp *gitlab.Response, err error) error {
	apiURL := g.client.BaseURL().String()
	var errResp *gitlab.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.Request != nil {
		apiURL = errResp.Response.Request.URL.String()
	}
	if resp != nil && resp.Response != nil {
		if resp.StatusCode == http.StatusUnauthorized {
			return g.base.authError(apiURL, "GITLAB_TOKEN")
		}
		return storyerrors.NewTransportError(apiURL, resp.StatusCode, err)
	}
	return storyerrors.NewTransportError(apiURL, 0, err)
}

func pipelineToStatus(p *gitlab.Pipeline) Status {
	status := Status{
		Result:     pipelineResult(p.Status),
		BranchName: p.Ref,
		BuildURL:   p.WebURL,
		Source:     "GitLab",
		Commit: Commit{
			ID: p.SHA,
		},
	}
	if p.StartedAt != nil {
		status.StartedAt = *p.StartedAt
	}
	if p.FinishedAt != nil {
		status.FinishedAt = *p.FinishedAt
	}
	if p.User != nil {
		status.Commit.AuthorName = p.User.Name
	}
	if p.CreatedAt != nil {
		status.Commit.Timestamp = p.CreatedAt.Format(time.RFC3339)
	}
	if project, _, ok := strings.Cut(p.WebURL, "/-/pipelines/"); ok && p.SHA != "" {
		status.Commit.URL = project + "/-/commit/" + p.SHA
	}
	return status
}

func pipelineResult(state string) Result {
	switch state {
	case "success":
		return ResultPassed
	case "failed":
		return ResultFailed
	case "canceled", "skipped":
		return ResultCanceled
	case "created", "waiting_for_resource", "preparing", "pending", "running", "scheduled", "manual":
		return ResultPending
	default:
		return ResultUnknown
	}
}
