package ci

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultSemaphoreAPIURL is the Semaphore v1 API root
const DefaultSemaphoreAPIURL = "https://semaphoreci.com/api/v1"

// SemaphoreConfig locates a Semaphore project
type SemaphoreConfig struct {
	APIURL      string
	ProjectHash string
	AuthToken   string
}

// Semaphore reads branch builds and server deploys from Semaphore
type Semaphore struct {
	client        *Client
	cfg           SemaphoreConfig
	notConfigured *onceWarning
}

// NewSemaphore creates a Semaphore provider
func NewSemaphore(client *Client, cfg SemaphoreConfig) *Semaphore {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultSemaphoreAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &Semaphore{
		client:        client,
		cfg:           cfg,
		notConfigured: newOnceWarning(client.logger, "Semaphore is not configured, set semaphore_auth_token and semaphore_project_hash"),
	}
}

// Name implements Provider
func (s *Semaphore) Name() string {
	return "Semaphore"
}

type semaphoreCommit struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
}

type semaphoreStatus struct {
	Result            string          `json:"result"`
	StartedAt         string          `json:"started_at"`
	FinishedAt        string          `json:"finished_at"`
	BranchName        string          `json:"branch_name"`
	ServerName        string          `json:"server_name"`
	BuildURL          string          `json:"build_url"`
	ServerHTMLURL     string          `json:"server_html_url"`
	BranchHistoryURL  string          `json:"branch_history_url"`
	ServerHistoryURL  string          `json:"server_history_url"`
	EstimatedDuration float64         `json:"estimated_duration"`
	Commit            semaphoreCommit `json:"commit"`
}

type semaphoreHistory struct {
	Builds  []semaphoreStatus `json:"builds"`
	Deploys []semaphoreStatus `json:"deploys"`
}

func (r semaphoreStatus) toStatus() Status {
	return Status{
		Result:        ParseResult(r.Result),
		StartedAt:     parseTime(r.StartedAt),
		FinishedAt:    parseTime(r.FinishedAt),
		BranchName:    r.BranchName,
		ServerName:    r.ServerName,
		BuildURL:      r.BuildURL,
		ServerHTMLURL: r.ServerHTMLURL,
		Estimate:      time.Duration(r.EstimatedDuration * float64(time.Second)),
		Source:        "Semaphore",
		Commit: Commit{
			ID:          r.Commit.ID,
			URL:         r.Commit.URL,
			AuthorName:  r.Commit.AuthorName,
			AuthorEmail: r.Commit.AuthorEmail,
			Message:     r.Commit.Message,
			Timestamp:   r.Commit.Timestamp,
		},
	}
}

func (s *Semaphore) configured() bool {
	if s.cfg.AuthToken == "" || s.cfg.ProjectHash == "" {
		s.notConfigured.trigger()
		return false
	}
	return true
}

func (s *Semaphore) projectURL(parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "projects", url.PathEscape(s.cfg.ProjectHash))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return s.withToken(s.cfg.APIURL + "/" + strings.Join(escaped, "/"))
}

func (s *Semaphore) withToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if !q.Has("auth_token") {
		q.Set("auth_token", s.cfg.AuthToken)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// BranchStatus implements Provider
func (s *Semaphore) BranchStatus(ctx context.Context, branch string) (*Status, error) {
	if !s.configured() {
		return nil, nil
	}
	var raw semaphoreStatus
	if err := s.client.GetJSON(ctx, s.projectURL(branch, "status"), nil, &raw); err != nil {
		return nil, err
	}
	status := raw.toStatus()
	if status.BranchName == "" {
		status.BranchName = branch
	}
	status.HistoryURL = raw.BranchHistoryURL
	if status.HistoryURL == "" {
		status.HistoryURL = s.projectURL(branch)
	}
	status.HistoryURL = s.withToken(status.HistoryURL)
	return &status, nil
}

// ServerStatus implements Provider
func (s *Semaphore) ServerStatus(ctx context.Context, server string) (*Status, error) {
	if !s.configured() {
		return nil, nil
	}
	var raw semaphoreStatus
	if err := s.client.GetJSON(ctx, s.projectURL("servers", server, "status"), nil, &raw); err != nil {
		return nil, err
	}
	status := raw.toStatus()
	if status.ServerName == "" {
		status.ServerName = server
	}
	status.HistoryURL = raw.ServerHistoryURL
	if status.HistoryURL == "" {
		status.HistoryURL = s.projectURL("servers", server)
	}
	status.HistoryURL = s.withToken(status.HistoryURL)
	return &status, nil
}

// History implements Provider by following the status' history link
func (s *Semaphore) History(ctx context.Context, status *Status) ([]Status, error) {
	if status == nil || status.HistoryURL == "" {
		return nil, nil
	}
	var raw semaphoreHistory
	if err := s.client.GetJSON(ctx, status.HistoryURL, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	history := make([]Status, 0, len(raw.Builds)+len(raw.Deploys))
	for _, r := range raw.Builds {
		history = append(history, r.toStatus())
	}
	for _, r := range raw.Deploys {
		history = append(history, r.toStatus())
	}
	return history, nil
}
