package git

import (
	"context"
	"fmt"
	"sync"

	"gitstory.dev/gitstory/internal/story"
)

// Session is the VCS collaborator for one process run. Fetching tags and
// commits touches the network, so each happens at most once per Session.
type Session struct {
	root   string
	remote string
	runner *CommandRunner

	mu             sync.Mutex
	tagsFetched    bool
	commitsFetched bool
}

// NewSession creates a session for the repository at root using remote.
func NewSession(root, remote string) *Session {
	if remote == "" {
		remote = "origin"
	}
	return &Session{
		root:   root,
		remote: remote,
		runner: NewCommandRunner(root),
	}
}

// Root returns the repository root.
func (s *Session) Root() string {
	return s.root
}

// Remote returns the remote story branches live on.
func (s *Session) Remote() string {
	return s.remote
}

// Runner returns the underlying git command runner.
func (s *Session) Runner() *CommandRunner {
	return s.runner
}

// open re-reads the repository so refs and packs written by a fetch are visible.
func (s *Session) open() (*Repository, error) {
	return OpenRepository(s.root)
}

// FetchTags runs "git fetch --tags" once per session.
func (s *Session) FetchTags(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tagsFetched {
		return nil
	}
	if _, err := s.runner.Run(ctx, "fetch", "--tags", s.remote); err != nil {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	s.tagsFetched = true
	return nil
}

// FetchCommits fetches and prunes the remote once per session.
func (s *Session) FetchCommits(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitsFetched {
		return nil
	}
	if _, err := s.runner.Run(ctx, "fetch", "--prune", s.remote); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", s.remote, err)
	}
	s.commitsFetched = true
	return nil
}

// ListRemoteRefs lists the remote-tracking branches with commit metadata.
func (s *Session) ListRemoteRefs(_ context.Context) ([]story.RemoteRef, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	return repo.RemoteRefs()
}

// TagNames lists all tag names.
func (s *Session) TagNames(_ context.Context) ([]string, error) {
	repo, err := s.open()
	if err != nil {
		return nil, err
	}
	return repo.TagNames()
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached.
func (s *Session) CurrentBranch(_ context.Context) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	return repo.CurrentBranch()
}

// RemoteURL returns the URL of the session's remote.
func (s *Session) RemoteURL(_ context.Context) (string, error) {
	repo, err := s.open()
	if err != nil {
		return "", err
	}
	return repo.RemoteURL(s.remote)
}

// Log returns "git log" output for the given revisions.
func (s *Session) Log(ctx context.Context, revisions []string, options ...string) (string, error) {
	args := append([]string{"log"}, options...)
	args = append(args, revisions...)
	return s.runner.RunRaw(ctx, args...)
}

// Diff returns "git diff" output for the given revisions, limited to paths.
func (s *Session) Diff(ctx context.Context, revisions []string, paths []string, options ...string) (string, error) {
	args := append([]string{"diff"}, options...)
	args = append(args, revisions...)
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return s.runner.RunRaw(ctx, args...)
}

// Checkout checks out ref, creating a tracking branch for remote branches.
func (s *Session) Checkout(ctx context.Context, ref string) error {
	if _, err := s.runner.Run(ctx, "checkout", ref); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", ref, err)
	}
	return nil
}

// CreateBranch creates and checks out name from HEAD, optionally pushing it
// with upstream tracking.
func (s *Session) CreateBranch(ctx context.Context, name string, push bool) error {
	if _, err := s.runner.Run(ctx, "checkout", "-b", name); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	if !push {
		return nil
	}
	if _, err := s.runner.Run(ctx, "push", "-u", s.remote, name); err != nil {
		return fmt.Errorf("failed to push branch %s: %w", name, err)
	}
	return nil
}

// DeleteBranch deletes the local branch if it exists and, when remote is
// set, the branch on the remote.
func (s *Session) DeleteBranch(ctx context.Context, name string, remote bool) error {
	repo, err := s.open()
	if err != nil {
		return err
	}
	if repo.LocalBranchExists(name) {
		if _, err := s.runner.Run(ctx, "branch", "-D", name); err != nil {
			return fmt.Errorf("failed to delete branch %s: %w", name, err)
		}
	}
	if !remote {
		return nil
	}
	if _, err := s.runner.Run(ctx, "push", s.remote, "--delete", name); err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %w", name, err)
	}
	return nil
}
