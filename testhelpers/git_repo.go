// Package testhelpers builds throwaway git repositories and fake HTTP
// services for tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// GitRepo represents a Git repository for testing
type GitRepo struct {
	Dir string
	env []string
}

// NewGitRepo creates a new Git repository in the specified directory
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{
		Dir: dir,
		env: []string{
			"GIT_CONFIG_GLOBAL=/dev/null",
			"GIT_CONFIG_NOSYSTEM=1",
			"GIT_TERMINAL_PROMPT=0",
		},
	}

	if err := repo.runGitCommand("-c", "init.defaultBranch=main", "init", dir, "-b", "main"); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "commit.gpgsign", "false"); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewTestRepo creates a repository with one commit on main and a bare
// "origin" remote that main has been pushed to. The directories are removed
// when the test ends.
func NewTestRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "work")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}
	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("failed to create git repo: %v", err)
	}
	if err := repo.CreateChangeAndCommit("initial", "init"); err != nil {
		t.Fatalf("failed to create initial commit: %v", err)
	}
	if _, err := repo.CreateBareRemote("origin"); err != nil {
		t.Fatalf("failed to create remote: %v", err)
	}
	if err := repo.PushBranch("origin", "main"); err != nil {
		t.Fatalf("failed to push main: %v", err)
	}
	return repo
}

// RunGitCommand runs a git command in the repository
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// RunGitCommandAndGetOutput runs a git command and returns its trimmed output
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	return r.runGitCommandAndGetOutput(args...)
}

func (r *GitRepo) runGitCommand(args ...string) error {
	_, err := r.runGitCommandAndGetOutput(args...)
	return err
}

func (r *GitRepo) runGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w\nOutput: %s", strings.Join(args, " "), err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateChange writes a file in the working tree
func (r *GitRepo) CreateChange(textValue, prefix string) error {
	filePath := filepath.Join(r.Dir, prefix+"_test.txt")
	return os.WriteFile(filePath, []byte(textValue), 0o644)
}

// CreateChangeAndCommit writes a file and commits it
func (r *GitRepo) CreateChangeAndCommit(textValue, prefix string) error {
	if err := r.CreateChange(textValue, prefix); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", textValue)
}

// CommitFile writes path relative to the repository root and commits it
func (r *GitRepo) CommitFile(path, contents, message string) error {
	full := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		return err
	}
	if err := r.runGitCommand("add", path); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", message)
}

// CreateAndCheckoutBranch creates a new branch and checks it out
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out an existing branch
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// CurrentBranchName returns the checked out branch
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.runGitCommandAndGetOutput("rev-parse", "--abbrev-ref", "HEAD")
}

// GetRevision returns the SHA of a revision
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.runGitCommandAndGetOutput("rev-parse", rev)
}

// CreateBareRemote creates a bare repository next to the working repository
// and registers it as remote name
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	remoteDir := r.Dir + "-" + name + ".git"
	cmd := exec.Command("git", "init", "--bare", remoteDir)
	cmd.Env = append(os.Environ(), r.env...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to create bare remote: %w\nOutput: %s", err, string(output))
	}
	if err := r.runGitCommand("remote", "add", name, remoteDir); err != nil {
		return "", err
	}
	return remoteDir, nil
}

// PushBranch pushes a branch to a remote
func (r *GitRepo) PushBranch(remote, branch string) error {
	return r.runGitCommand("push", remote, branch)
}

// PushStoryBranch creates branch from main with one commit authored by
// author, pushes it to origin and returns to main
func (r *GitRepo) PushStoryBranch(branch, author, email string) error {
	if err := r.CreateAndCheckoutBranch(branch); err != nil {
		return err
	}
	if err := r.CreateChange(branch, branch); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	if err := r.runGitCommand("commit", "-m", branch, "--author", fmt.Sprintf("%s <%s>", author, email)); err != nil {
		return err
	}
	if err := r.PushBranch("origin", branch); err != nil {
		return err
	}
	return r.CheckoutBranch("main")
}

// Tag creates a lightweight tag at HEAD
func (r *GitRepo) Tag(name string) error {
	return r.runGitCommand("tag", name)
}

// PushTags pushes all tags to remote
func (r *GitRepo) PushTags(remote string) error {
	return r.runGitCommand("push", remote, "--tags")
}

// DeleteTag deletes a local tag
func (r *GitRepo) DeleteTag(name string) error {
	return r.runGitCommand("tag", "-d", name)
}

// FetchAll fetches and prunes origin
func (r *GitRepo) FetchAll() error {
	return r.runGitCommand("fetch", "--prune", "origin")
}

// LocalBranchExists reports whether a local branch exists
func (r *GitRepo) LocalBranchExists(name string) bool {
	return r.runGitCommand("rev-parse", "--verify", "--quiet", "refs/heads/"+name) == nil
}

// RemoteBranchExists reports whether branch exists in the bare remote
func (r *GitRepo) RemoteBranchExists(remote, name string) bool {
	out, err := r.runGitCommandAndGetOutput("ls-remote", "--heads", remote, name)
	return err == nil && out != ""
}
