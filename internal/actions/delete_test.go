package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/actions"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/testhelpers"
	"gitstory.dev/gitstory/testhelpers/scenario"
)

func TestDeleteAction(t *testing.T) {
	t.Run("force removes local and remote branch", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)

		require.NoError(t, actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "dark", Force: true}))
		require.False(t, s.Scene.Repo.LocalBranchExists("feature_dark-mode_7"))
		require.False(t, s.Scene.Repo.RemoteBranchExists("origin", "feature_dark-mode_7"))
		require.True(t, s.Scene.Repo.RemoteBranchExists("origin", "story_fix-login_42"))
		require.Contains(t, s.Out(), "Deleted")
	})

	t.Run("confirmation", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)
		var question string
		confirm := func(prompt string, defaultValue bool) (bool, error) {
			question = prompt
			require.False(t, defaultValue)
			return false, nil
		}

		require.NoError(t, actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "42", Confirm: confirm}))
		require.Equal(t, "Delete story_fix-login_42 locally and on origin?", question)
		require.Contains(t, s.Out(), "Aborted.")
		require.True(t, s.Scene.Repo.RemoteBranchExists("origin", "story_fix-login_42"))

		yes := func(string, bool) (bool, error) { return true, nil }
		require.NoError(t, actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "42", Confirm: yes}))
		require.False(t, s.Scene.Repo.RemoteBranchExists("origin", "story_fix-login_42"))
	})

	t.Run("needs --force without a terminal", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "dark"})
		require.ErrorIs(t, err, storyerrors.ErrUserInput)
		require.Contains(t, err.Error(), "--force")
		require.True(t, s.Scene.Repo.RemoteBranchExists("origin", "feature_dark-mode_7"))
	})

	t.Run("refuses the checked out story", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)
		s.Checkout("story_fix-login_42")

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "login", Force: true})
		require.ErrorIs(t, err, storyerrors.ErrUserInput)
		require.True(t, s.Scene.Repo.LocalBranchExists("story_fix-login_42"))
	})

	t.Run("zero padded story id", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)
		s.WithStory("feature_padded_007", "John Roe", "john@example.com")

		require.NoError(t, actions.DeleteAction(s.Context, actions.DeleteOptions{Pattern: "padded", Force: true}))
		require.False(t, s.Scene.Repo.LocalBranchExists("feature_padded_007"))
		require.False(t, s.Scene.Repo.RemoteBranchExists("origin", "feature_padded_007"))
	})
}
