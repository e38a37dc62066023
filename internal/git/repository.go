package git

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"gitstory.dev/gitstory/internal/story"
)

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	root string
}

// OpenRepository opens the git repository containing path
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		Repository: repo,
		root:       worktree.Filesystem.Root(),
	}, nil
}

// GetRepoRoot returns the root directory of the Git repository containing the
// current working directory
func GetRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	repo, err := OpenRepository(wd)
	if err != nil {
		return "", err
	}
	return repo.Root(), nil
}

// Root returns the root directory of the worktree
func (r *Repository) Root() string {
	return r.root
}

// RemoteRefs returns every remote-tracking branch with the metadata of the
// commit it points at
func (r *Repository) RemoteRefs() ([]story.RemoteRef, error) {
	iter, err := r.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}

	var refs []story.RemoteRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference || !ref.Name().IsRemote() {
			return nil
		}
		remoteRef := story.RemoteRef{Name: ref.Name().String()}
		if commit, err := r.CommitObject(ref.Hash()); err == nil {
			remoteRef.CommittedAt = commit.Committer.When
			remoteRef.AuthorName = commit.Author.Name
			remoteRef.AuthorEmail = commit.Author.Email
		}
		refs = append(refs, remoteRef)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// TagNames returns the short names of all tags
func (r *Repository) TagNames() ([]string, error) {
	iter, err := r.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "HEAD", nil
	}
	return head.Name().Short(), nil
}

// LocalBranchExists reports whether refs/heads/name exists
func (r *Repository) LocalBranchExists(name string) bool {
	_, err := r.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

// RemoteURL returns the first URL configured for remote
func (r *Repository) RemoteURL(remote string) (string, error) {
	rem, err := r.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}
