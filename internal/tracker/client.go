// Package tracker reads stories from Pivotal Tracker.
package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gitstory.dev/gitstory/internal/ci"
)

// DefaultBaseURL is the Pivotal Tracker v5 API root
const DefaultBaseURL = "https://www.pivotaltracker.com/services/v5"

// TokenHint names where the tracker token is read from
const TokenHint = "env var PIVOTAL_TOKEN"

// Config locates a tracker project
type Config struct {
	Token   string
	Project string
	BaseURL string
}

// Label is a story label
type Label struct {
	Name string `json:"name"`
}

// Story is the subset of a tracker story git-story displays
type Story struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	CurrentState string  `json:"current_state"`
	StoryType    string  `json:"story_type"`
	Estimate     float64 `json:"estimate"`
	URL          string  `json:"url"`
	OwnerIDs     []int   `json:"owner_ids"`
	Labels       []Label `json:"labels"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// Person is a story owner
type Person struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Client reads stories and their owners
type Client struct {
	http   *ci.Client
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a tracker client on top of an HTTP client whose token
// hint should be TokenHint
func NewClient(httpClient *ci.Client, cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{http: httpClient, cfg: cfg, logger: logger}
}

// Configured reports whether a token and project are set
func (c *Client) Configured() bool {
	return c.cfg.Token != "" && c.cfg.Project != ""
}

func (c *Client) get(ctx context.Context, path string, out any) (bool, error) {
	if !c.Configured() {
		c.logger.Warn("Pivotal Tracker is not configured, set PIVOTAL_TOKEN and pivotal_project")
		return false, nil
	}
	url := c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
	headers := map[string]string{"X-TrackerToken": c.cfg.Token}
	if err := c.http.GetJSON(ctx, url, headers, out); err != nil {
		return false, err
	}
	return true, nil
}

// Story fetches a story. It returns nil without an error when the tracker
// is not configured.
func (c *Client) Story(ctx context.Context, storyID int) (*Story, error) {
	var story Story
	ok, err := c.get(ctx, fmt.Sprintf("projects/%s/stories/%d", c.cfg.Project, storyID), &story)
	if err != nil || !ok {
		return nil, err
	}
	return &story, nil
}

// Owners fetches the owners of a story
func (c *Client) Owners(ctx context.Context, storyID int) ([]Person, error) {
	var owners []Person
	ok, err := c.get(ctx, fmt.Sprintf("projects/%s/stories/%d/owners", c.cfg.Project, storyID), &owners)
	if err != nil || !ok {
		return nil, err
	}
	return owners, nil
}

// StoryName returns the story's title, empty when unknown
func (c *Client) StoryName(ctx context.Context, storyID int) (string, error) {
	story, err := c.Story(ctx, storyID)
	if err != nil || story == nil {
		return "", err
	}
	return strings.TrimSpace(story.Name), nil
}

// StoryURL is the web page of a story
func StoryURL(storyID int) string {
	return fmt.Sprintf("https://www.pivotaltracker.com/story/show/%d", storyID)
}
