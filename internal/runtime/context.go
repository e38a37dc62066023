// Package runtime provides a context type that holds the configuration,
// logger and collaborators for use throughout the application.
package runtime

import (
	"context"
	"fmt"
	"time"

	"gitstory.dev/gitstory/internal/ci"
	"gitstory.dev/gitstory/internal/config"
	"gitstory.dev/gitstory/internal/git"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tracker"
	"gitstory.dev/gitstory/internal/tui"
)

// Options are the process-wide settings taken from flags
type Options struct {
	// ConfigPath overrides config/story.yml
	ConfigPath string
	// Debug enables debug output and raw response dumps
	Debug bool
}

// Context provides access to configuration, output and collaborators for commands
type Context struct {
	Context  context.Context
	Config   *config.Config
	Splog    *tui.Splog
	Session  *git.Session
	Registry *story.Registry
	Tracker  *tracker.Client
	CI       ci.Provider
	Reporter *ci.Reporter
	Debug    bool
	Now      func() time.Time
}

// NewContext wires the collaborators for the repository at repoRoot
func NewContext(ctx context.Context, repoRoot string, cfg *config.Config, splog *tui.Splog, debug bool) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if splog == nil {
		splog = tui.NewSplog()
	}
	logger := splog.Logger()

	session := git.NewSession(repoRoot, cfg.Remote)

	trackerHTTP := ci.NewClient(ci.ClientOptions{
		Timeout:   cfg.HTTPTimeout,
		TokenHint: tracker.TokenHint,
		Logger:    logger,
		Debug:     debug,
	})
	trackerClient := tracker.NewClient(trackerHTTP, tracker.Config{
		Token:   cfg.PivotalToken,
		Project: cfg.PivotalProject,
		BaseURL: cfg.PivotalBaseURL,
	}, logger)

	provider, err := NewProvider(ctx, cfg, splog, debug)
	if err != nil {
		return nil, err
	}

	rc := &Context{
		Context:  ctx,
		Config:   cfg,
		Splog:    splog,
		Session:  session,
		Registry: story.NewRegistry(session, session.Remote()),
		Tracker:  trackerClient,
		CI:       provider,
		Debug:    debug,
		Now:      time.Now,
	}
	rc.Reporter = ci.NewReporter(provider, ci.Estimator{Now: rc.now}, logger)
	return rc, nil
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// NewProvider creates the CI provider selected by ci_provider
func NewProvider(ctx context.Context, cfg *config.Config, splog *tui.Splog, debug bool) (ci.Provider, error) {
	opts := ci.ClientOptions{
		Timeout: cfg.HTTPTimeout,
		Logger:  splog.Logger(),
		Debug:   debug,
	}

	switch cfg.CIProvider {
	case config.ProviderGitHub:
		opts.TokenHint = "env var GITHUB_TOKEN"
		provider, err := ci.NewGitHub(ctx, ci.NewClient(opts), ci.GitHubConfig{
			Token:      cfg.GitHubToken,
			Repository: cfg.GitHubRepository,
			BaseURL:    cfg.GitHubBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.ProviderGitLab:
		opts.TokenHint = "env var GITLAB_TOKEN"
		provider, err := ci.NewGitLab(ci.NewClient(opts), ci.GitLabConfig{
			Token:   cfg.GitLabToken,
			Project: cfg.GitLabProject,
			BaseURL: cfg.GitLabBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.ProviderSemaphore, "":
		opts.TokenHint = "env var SEMAPHORE_AUTH_TOKEN"
		return ci.NewSemaphore(ci.NewClient(opts), ci.SemaphoreConfig{
			APIURL:      cfg.SemaphoreAPIURL,
			ProjectHash: cfg.SemaphoreHash(),
			AuthToken:   cfg.SemaphoreAuthToken,
		}), nil
	default:
		return nil, fmt.Errorf("unknown ci_provider %q", cfg.CIProvider)
	}
}

// GetContext finds the repository containing the working directory, loads
// its configuration and wires a Context
func GetContext(ctx context.Context, splog *tui.Splog, opts Options) (*Context, error) {
	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(repoRoot, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		splog.Debug("Loaded config from %s", cfg.Path)
	}

	return NewContext(ctx, repoRoot, cfg, splog, opts.Debug)
}
