package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene is a temporary working repository with a bare "origin" remote. The
// process working directory is moved into it for the duration of the test.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a scene and runs setup in it. It changes the working
// directory, so tests using it must not run in parallel.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	repo := NewTestRepo(t)
	scene := &Scene{Dir: repo.Dir, Repo: repo}
	t.Chdir(repo.Dir)

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// WriteConfig writes config/story.yml with the given top-level settings
func (s *Scene) WriteConfig(settings map[string]string) error {
	path := filepath.Join(s.Dir, "config", "story.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	contents := "---\n"
	for key, value := range settings {
		contents += key + ": \"" + value + "\"\n"
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

// StoriesSceneSetup pushes two story branches by different authors and one
// unrelated branch.
func StoriesSceneSetup(scene *Scene) error {
	if err := scene.Repo.PushStoryBranch("story_fix-login_42", "Jane Doe", "jane@example.com"); err != nil {
		return err
	}
	if err := scene.Repo.PushStoryBranch("feature_dark-mode_7", "John Roe", "john@example.com"); err != nil {
		return err
	}
	if err := scene.Repo.PushStoryBranch("hotfix", "Jane Doe", "jane@example.com"); err != nil {
		return err
	}
	return scene.Repo.FetchAll()
}
