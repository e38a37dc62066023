package cli_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/cli"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/testhelpers"
)

// execute runs the command tree in process and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GIT_STORY_TEST_NO_INTERACTIVE", "1")
	t.Setenv("GIT_STORY_LOG_FILE", filepath.Join(t.TempDir(), "git-story.log"))
	for _, name := range []string{"PIVOTAL_TOKEN", "SEMAPHORE_AUTH_TOKEN", "GITHUB_TOKEN", "GITLAB_TOKEN"} {
		t.Setenv(name, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test", "none", "unknown")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Run("help lists every command", func(t *testing.T) {
		out, _, err := execute(t, "help")
		require.NoError(t, err)
		for _, name := range []string{
			"list", "current", "details", "create", "switch", "delete", "open",
			"deploy-tags", "deploy-tags-last", "deploy-log", "deploy-diff", "deploy-migrate-diff",
			"build-status", "deploy-status",
		} {
			require.Contains(t, out, name)
		}
	})

	t.Run("no command prints help", func(t *testing.T) {
		out, _, err := execute(t)
		require.NoError(t, err)
		require.Contains(t, out, "Usage:")
	})

	t.Run("unknown command prints usage and fails", func(t *testing.T) {
		out, errOut, err := execute(t, "frobnicate")
		require.ErrorIs(t, err, storyerrors.ErrUserInput)
		require.Contains(t, err.Error(), "frobnicate")
		require.Contains(t, errOut, "Usage:")
		require.Empty(t, out)
	})

	t.Run("unknown open target is rejected", func(t *testing.T) {
		_, _, err := execute(t, "open", "wiki")
		require.Error(t, err)
	})
}

func TestCommandsInProcess(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.StoriesSceneSetup)

	out, _, err := execute(t, "list")
	require.NoError(t, err)
	require.Contains(t, out, "story_fix-login_42")
	require.Contains(t, out, "feature_dark-mode_7")
	require.NotContains(t, out, "hotfix")

	out, _, err = execute(t, "list", "--author", "jane")
	require.NoError(t, err)
	require.Contains(t, out, "story_fix-login_42")
	require.NotContains(t, out, "feature_dark-mode_7")

	_, _, err = execute(t, "switch", "#7")
	require.NoError(t, err)
	branch, err := scene.Repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, "feature_dark-mode_7", branch)

	out, _, err = execute(t, "current")
	require.NoError(t, err)
	require.Equal(t, "feature_dark-mode_7\n", out)

	out, _, err = execute(t, "open", "tracker", "--print")
	require.NoError(t, err)
	require.Equal(t, "https://www.pivotaltracker.com/story/show/7\n", out)
}

func TestConfigFlag(t *testing.T) {
	scene := testhelpers.NewScene(t, nil)
	require.NoError(t, scene.Repo.CreateChangeAndCommit("release", "release"))
	require.NoError(t, scene.Repo.Tag("rel_2024_03_01-10_30"))
	require.NoError(t, scene.Repo.Tag("production_deploy_2024_03_01-10_30"))

	out, _, err := execute(t, "deploy-tags")
	require.NoError(t, err)
	require.Equal(t, "production_deploy_2024_03_01-10_30\n", out)

	require.NoError(t, scene.WriteConfig(map[string]string{"deploy_tag_prefix": "rel_"}))
	out, _, err = execute(t, "deploy-tags-last")
	require.NoError(t, err)
	require.Equal(t, "rel_2024_03_01-10_30\n", out)

	_, _, err = execute(t, "deploy-tags", "--config", filepath.Join(scene.Dir, "missing.yml"))
	require.NoError(t, err)
}
