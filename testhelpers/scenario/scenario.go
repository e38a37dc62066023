// Package scenario provides a high-level test scenario that combines a Scene,
// fake tracker and CI servers, and a runtime Context to provide a terse API
// for action tests.
package scenario

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/config"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tui"
	"gitstory.dev/gitstory/testhelpers"
)

// Now is the fixed clock of every scenario
var Now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Scenario represents a high-level test scenario
type Scenario struct {
	T         *testing.T
	Scene     *testhelpers.Scene
	Config    *config.Config
	Context   *runtime.Context
	Output    *bytes.Buffer
	Tracker   *testhelpers.MockTrackerConfig
	Semaphore *testhelpers.MockSemaphoreConfig
}

// NewScenario creates a Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv and t.Chdir.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	// Force non-interactive mode for tests
	t.Setenv("GIT_STORY_TEST_NO_INTERACTIVE", "true")
	for _, name := range []string{"PIVOTAL_TOKEN", "SEMAPHORE_AUTH_TOKEN", "GITHUB_TOKEN", "GITLAB_TOKEN"} {
		t.Setenv(name, "")
	}

	scene := testhelpers.NewScene(t, setup)

	trackerConfig := testhelpers.NewMockTrackerConfig()
	trackerServer := testhelpers.NewMockTrackerServer(t, trackerConfig)
	semaphoreConfig := testhelpers.NewMockSemaphoreConfig()
	semaphoreServer := testhelpers.NewMockSemaphoreServer(t, semaphoreConfig)

	cfg, err := config.Load(scene.Dir, "")
	require.NoError(t, err)
	cfg.PivotalToken = trackerConfig.Token
	cfg.PivotalProject = trackerConfig.Project
	cfg.PivotalBaseURL = trackerServer.URL
	cfg.SemaphoreAPIURL = semaphoreServer.URL
	cfg.SemaphoreProjectHash = semaphoreConfig.ProjectHash
	cfg.SemaphoreAuthToken = semaphoreConfig.AuthToken
	cfg.HTTPTimeout = 5 * time.Second

	s := &Scenario{
		T:         t,
		Scene:     scene,
		Config:    cfg,
		Output:    &bytes.Buffer{},
		Tracker:   trackerConfig,
		Semaphore: semaphoreConfig,
	}
	return s.Rebuild()
}

// Rebuild recreates the runtime Context from Config, e.g. after a test
// changed a setting. Output is kept.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()
	splog, err := tui.NewSplogWithConfig(s.Output, "")
	require.NoError(s.T, err)

	ctx, err := runtime.NewContext(context.Background(), s.Scene.Dir, s.Config, splog, false)
	require.NoError(s.T, err)
	ctx.Now = func() time.Time { return Now }
	s.Context = ctx
	return s
}

// WithStory pushes a story branch authored by author <email>
func (s *Scenario) WithStory(branch, author, email string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.PushStoryBranch(branch, author, email))
	require.NoError(s.T, s.Scene.Repo.FetchAll())
	return s
}

// WithReleaseTag commits a change, tags it and pushes the tag
func (s *Scenario) WithReleaseTag(tag string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CreateChangeAndCommit("release "+tag, tag))
	require.NoError(s.T, s.Scene.Repo.Tag(tag))
	require.NoError(s.T, s.Scene.Repo.PushTags("origin"))
	return s
}

// Commit commits path with contents on the current branch
func (s *Scenario) Commit(path, contents, message string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CommitFile(path, contents, message))
	return s
}

// Checkout checks out a branch
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.CheckoutBranch(branch))
	return s
}

// Out returns everything written so far and resets the buffer
func (s *Scenario) Out() string {
	out := s.Output.String()
	s.Output.Reset()
	return out
}
