package story

import (
	"context"
	"path"
	"sort"
	"strings"
	"time"
)

// RemoteRef is one reference as reported by the VCS, with the metadata of the
// commit it points at.
type RemoteRef struct {
	Name        string
	CommittedAt time.Time
	AuthorName  string
	AuthorEmail string
}

// RefLister lists every reference known to the local repository
type RefLister interface {
	ListRemoteRefs(ctx context.Context) ([]RemoteRef, error)
}

// Registry exposes the story branches found under one remote.
// Every call to List goes back to the VCS.
type Registry struct {
	lister RefLister
	remote string
}

// NewRegistry creates a registry over the remote-tracking refs of remote.
func NewRegistry(lister RefLister, remote string) *Registry {
	if remote == "" {
		remote = "origin"
	}
	return &Registry{lister: lister, remote: remote}
}

// List returns the story branches in the order the VCS reported them.
func (r *Registry) List(ctx context.Context) ([]Branch, error) {
	refs, err := r.lister.ListRemoteRefs(ctx)
	if err != nil {
		return nil, err
	}

	prefix := "refs/remotes/" + r.remote + "/"
	var branches []Branch
	for _, ref := range refs {
		if !strings.HasPrefix(ref.Name, prefix) {
			continue
		}
		b, ok := Parse(path.Base(ref.Name))
		if !ok {
			continue
		}
		branches = append(branches, b.WithMetadata(ref.CommittedAt, formatAuthor(ref.AuthorName, ref.AuthorEmail)))
	}
	return branches, nil
}

// FindByID returns the branch for storyID, if any.
func (r *Registry) FindByID(ctx context.Context, storyID int) (Branch, bool, error) {
	branches, err := r.List(ctx)
	if err != nil {
		return Branch{}, false, err
	}
	b, ok := FindByID(branches, storyID)
	return b, ok, nil
}

// FilterByAuthor lists the branches whose author contains substr (case-insensitive).
func (r *Registry) FilterByAuthor(ctx context.Context, substr string) ([]Branch, error) {
	branches, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByAuthor(branches, substr), nil
}

// Names lists the base names of all story branches.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	branches, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return Names(branches), nil
}

// FindByID finds the first branch belonging to storyID.
func FindByID(branches []Branch, storyID int) (Branch, bool) {
	for _, b := range branches {
		if b.StoryID == storyID {
			return b, true
		}
	}
	return Branch{}, false
}

// FilterByAuthor keeps the branches whose author contains substr (case-insensitive).
func FilterByAuthor(branches []Branch, substr string) []Branch {
	needle := strings.ToLower(substr)
	var out []Branch
	for _, b := range branches {
		if strings.Contains(strings.ToLower(b.Author), needle) {
			out = append(out, b)
		}
	}
	return out
}

// Names maps branches to their base names.
func Names(branches []Branch) []string {
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.BaseName())
	}
	return names
}

// SortByCreatedDesc returns a copy of branches, newest first.
func SortByCreatedDesc(branches []Branch) []Branch {
	out := append([]Branch(nil), branches...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Matches returns the names containing pattern, ignoring any "#" the user typed.
func Matches(pattern string, names []string) []string {
	pattern = strings.ReplaceAll(pattern, "#", "")
	var out []string
	for _, n := range names {
		if strings.Contains(n, pattern) {
			out = append(out, n)
		}
	}
	return out
}

// ExtractStoryID keeps only the digits of s, e.g. "#123" -> "123".
func ExtractStoryID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatAuthor(name, email string) string {
	switch {
	case email == "":
		return name
	case name == "":
		return "<" + email + ">"
	default:
		return name + " <" + email + ">"
	}
}
