package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PIVOTAL_TOKEN", "SEMAPHORE_AUTH_TOKEN", "GITHUB_TOKEN", "GITLAB_TOKEN"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, root, contents string) {
	t.Helper()
	path := filepath.Join(root, DefaultConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Empty(t, cfg.Path)
	require.Equal(t, "production_deploy_", cfg.DeployTagPrefix)
	require.Equal(t, "production", cfg.DeployServer)
	require.Equal(t, ProviderSemaphore, cfg.CIProvider)
	require.Equal(t, "origin", cfg.Remote)
	require.Equal(t, 128, cfg.MaxBranchNameLength)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "@every 10s", cfg.WatchInterval)
	require.Equal(t, "https://semaphoreci.com/api/v1", cfg.SemaphoreAPIURL)
	require.Empty(t, cfg.PivotalToken)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeConfig(t, root, `---
pivotal_token:   secret
pivotal_project: 123456789
pivotal_reference_prefix: pivotal
deploy_tag_prefix: release_
semaphore_project_url: https://semaphoreci.com/acme/shop/
todo_nudging: false
concurrency: 3
http_timeout: 5s
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, DefaultConfigFile), cfg.Path)
	require.Equal(t, "secret", cfg.PivotalToken)
	require.Equal(t, "123456789", cfg.PivotalProject)
	require.Equal(t, "release_", cfg.DeployTagPrefix)
	require.Equal(t, 3, cfg.Concurrency)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "shop", cfg.SemaphoreHash())
	// untouched keys keep their defaults
	require.Equal(t, "origin", cfg.Remote)
}

func TestLoadStorySection(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeConfig(t, root, `deploy_tag_prefix: flat_
remote: upstream
story:
  deploy_tag_prefix: nested_
  pivotal_project: "1234"
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, "nested_", cfg.DeployTagPrefix)
	require.Equal(t, "1234", cfg.PivotalProject)
	require.Equal(t, "upstream", cfg.Remote)
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	writeConfig(t, root, "pivotal_token: from-file\n")

	t.Setenv("PIVOTAL_TOKEN", "from-env")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("GIT_STORY_CI_PROVIDER", "github")

	cfg, err := Load(root, "")
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.PivotalToken)
	require.Equal(t, "gh-token", cfg.GitHubToken)
	require.Equal(t, ProviderGitHub, cfg.CIProvider)
}

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "other.yml")
	require.NoError(t, os.WriteFile(path, []byte("remote: upstream\n"), 0o644))

	cfg, err := Load(t.TempDir(), path)
	require.NoError(t, err)
	require.Equal(t, "upstream", cfg.Remote)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	t.Run("malformed yaml", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "remote: [unterminated\n")
		_, err := Load(root, "")
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "ci_provider: jenkins\n")
		_, err := Load(root, "")
		require.ErrorContains(t, err, "unknown ci_provider")
	})

	t.Run("zero concurrency", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "concurrency: 0\n")
		_, err := Load(root, "")
		require.ErrorContains(t, err, "concurrency")
	})
}

func TestSemaphoreHash(t *testing.T) {
	cfg := &Config{SemaphoreProjectHash: "abc"}
	require.Equal(t, "abc", cfg.SemaphoreHash())

	cfg = &Config{SemaphoreProjectURL: "https://semaphoreci.com/acme/shop"}
	require.Equal(t, "shop", cfg.SemaphoreHash())

	require.Empty(t, (&Config{}).SemaphoreHash())
}
