package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigFile is relative to the repository root
	DefaultConfigFile = "config/story.yml"

	// Section is an optional top-level key; settings under it win over
	// the same settings at the top level
	Section = "story"
)

// CI providers
const (
	ProviderSemaphore = "semaphore"
	ProviderGitHub    = "github"
	ProviderGitLab    = "gitlab"
)

// Config is the effective configuration
type Config struct {
	PivotalToken   string `mapstructure:"pivotal_token"`
	PivotalProject string `mapstructure:"pivotal_project"`
	PivotalBaseURL string `mapstructure:"pivotal_base_url"`

	DeployTagPrefix string `mapstructure:"deploy_tag_prefix"`
	DeployServer    string `mapstructure:"deploy_server"`

	CIProvider string `mapstructure:"ci_provider"`

	SemaphoreAuthToken   string `mapstructure:"semaphore_auth_token"`
	SemaphoreProjectURL  string `mapstructure:"semaphore_project_url"`
	SemaphoreAPIURL      string `mapstructure:"semaphore_api_url"`
	SemaphoreProjectHash string `mapstructure:"semaphore_project_hash"`

	GitHubToken      string `mapstructure:"github_token"`
	GitHubRepository string `mapstructure:"github_repository"`
	GitHubBaseURL    string `mapstructure:"github_base_url"`

	GitLabToken   string `mapstructure:"gitlab_token"`
	GitLabProject string `mapstructure:"gitlab_project"`
	GitLabBaseURL string `mapstructure:"gitlab_base_url"`

	Remote              string        `mapstructure:"remote"`
	MaxBranchNameLength int           `mapstructure:"max_branch_name_length"`
	Concurrency         int           `mapstructure:"concurrency"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`
	WatchInterval       string        `mapstructure:"watch_interval"`

	// Path is the file that was read, empty when none was found
	Path string `mapstructure:"-"`
}

// envBindings maps keys to the well-known environment variables that also
// set them, in addition to GIT_STORY_<KEY>
var envBindings = map[string][]string{
	"pivotal_token":        {"GIT_STORY_PIVOTAL_TOKEN", "PIVOTAL_TOKEN"},
	"semaphore_auth_token": {"GIT_STORY_SEMAPHORE_AUTH_TOKEN", "SEMAPHORE_AUTH_TOKEN"},
	"github_token":         {"GIT_STORY_GITHUB_TOKEN", "GITHUB_TOKEN"},
	"gitlab_token":         {"GIT_STORY_GITLAB_TOKEN", "GITLAB_TOKEN"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pivotal_token", "")
	v.SetDefault("pivotal_project", "")
	v.SetDefault("pivotal_base_url", "https://www.pivotaltracker.com/services/v5")

	v.SetDefault("deploy_tag_prefix", "production_deploy_")
	v.SetDefault("deploy_server", "production")

	v.SetDefault("ci_provider", ProviderSemaphore)
	v.SetDefault("semaphore_auth_token", "")
	v.SetDefault("semaphore_project_url", "")
	v.SetDefault("semaphore_api_url", "https://semaphoreci.com/api/v1")
	v.SetDefault("semaphore_project_hash", "")

	v.SetDefault("github_token", "")
	v.SetDefault("github_repository", "")
	v.SetDefault("github_base_url", "")

	v.SetDefault("gitlab_token", "")
	v.SetDefault("gitlab_project", "")
	v.SetDefault("gitlab_base_url", "")

	v.SetDefault("remote", "origin")
	v.SetDefault("max_branch_name_length", 128)
	v.SetDefault("concurrency", 8)
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("watch_interval", "@every 10s")
}

// Load reads the configuration for the repository at repoRoot. path
// overrides the default file location; a missing file is not an error.
func Load(repoRoot, path string) (*Config, error) {
	file := path
	if file == "" {
		file = filepath.Join(repoRoot, DefaultConfigFile)
	}

	raw := viper.New()
	raw.SetConfigFile(file)
	raw.SetConfigType("yaml")
	found := true
	if err := raw.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		found = false
	}

	v := viper.New()
	v.SetEnvPrefix("GIT_STORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}
	if found {
		if err := mergeSettings(v, raw); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", file, err)
	}
	if found {
		cfg.Path = file
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeSettings copies the file's top-level settings into v, then the ones
// nested under Section.
func mergeSettings(v, raw *viper.Viper) error {
	flat := raw.AllSettings()
	delete(flat, Section)
	if err := v.MergeConfigMap(flat); err != nil {
		return err
	}
	if raw.IsSet(Section) {
		return v.MergeConfigMap(raw.GetStringMap(Section))
	}
	return nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch c.CIProvider {
	case ProviderSemaphore, ProviderGitHub, ProviderGitLab:
	default:
		return fmt.Errorf("unknown ci_provider %q (want %s, %s or %s)",
			c.CIProvider, ProviderSemaphore, ProviderGitHub, ProviderGitLab)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxBranchNameLength < 16 {
		return fmt.Errorf("max_branch_name_length must be at least 16, got %d", c.MaxBranchNameLength)
	}
	return nil
}

// SemaphoreHash returns the configured project hash, or the last path
// element of semaphore_project_url
func (c *Config) SemaphoreHash() string {
	if c.SemaphoreProjectHash != "" {
		return c.SemaphoreProjectHash
	}
	url := strings.TrimRight(c.SemaphoreProjectURL, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
