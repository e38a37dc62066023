package actions_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/actions"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/testhelpers"
	"gitstory.dev/gitstory/testhelpers/scenario"
)

func TestBuildStatusAction(t *testing.T) {
	t.Run("current story", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)
		s.Semaphore.AddBuild("story_fix-login_42", "passed", scenario.Now.Add(-10*time.Minute), 5*time.Minute)
		s.Checkout("story_fix-login_42")

		require.NoError(t, actions.BuildStatusAction(s.Context, actions.BuildStatusOptions{}))
		out := s.Out()
		require.Contains(t, out, "story_fix-login_42 #0123456789 passed after 00:05:00")
		require.Contains(t, out, "https://semaphoreci.com/acme/shop/branches/story_fix-login_42/builds/1")
	})

	t.Run("several stories in id order, failures isolated", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)
		s.Semaphore.AddBuild("story_fix-login_42", "passed", scenario.Now.Add(-10*time.Minute), 5*time.Minute)
		s.Semaphore.Failures["feature_dark-mode_7"] = 500

		require.NoError(t, actions.BuildStatusAction(s.Context, actions.BuildStatusOptions{StoryIDs: []string{"42", "#7"}}))
		out := s.Out()
		failed := strings.Index(out, "story #7")
		passed := strings.Index(out, "passed after")
		require.GreaterOrEqual(t, failed, 0)
		require.Greater(t, passed, failed)
	})

	t.Run("story without a branch", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)

		require.NoError(t, actions.BuildStatusAction(s.Context, actions.BuildStatusOptions{StoryIDs: []string{"999"}}))
		require.Contains(t, s.Out(), "no branch for story #999")
	})

	t.Run("requires a story", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.StoriesSceneSetup)

		err := actions.BuildStatusAction(s.Context, actions.BuildStatusOptions{})
		require.ErrorIs(t, err, storyerrors.ErrUserInput)
	})
}

func TestDeployStatusAction(t *testing.T) {
	t.Run("configured server", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		s.Semaphore.AddDeploy("production", "failed", scenario.Now.Add(-time.Hour), 3*time.Minute)

		require.NoError(t, actions.DeployStatusAction(s.Context, actions.DeployStatusOptions{}))
		out := s.Out()
		require.Contains(t, out, "production #0123456789 failed after 00:03:00")
		require.Contains(t, out, "https://semaphoreci.com/acme/shop/servers/production")
	})

	t.Run("watch renders until canceled", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		s.Semaphore.AddDeploy("staging", "passed", scenario.Now.Add(-time.Hour), time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.Context.Context = ctx

		opts := actions.DeployStatusOptions{Server: "staging", WatchOptions: actions.WatchOptions{Watch: true, Interval: "1s"}}
		require.NoError(t, actions.DeployStatusAction(s.Context, opts))
		require.Contains(t, s.Out(), "staging #0123456789 passed")
	})

	t.Run("bad interval", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		opts := actions.DeployStatusOptions{WatchOptions: actions.WatchOptions{Watch: true, Interval: "whenever"}}

		err := actions.DeployStatusAction(s.Context, opts)
		require.ErrorIs(t, err, storyerrors.ErrUserInput)
	})
}
