// Package story turns remote branch names into story branches and looks them up.
package story

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Kind is the leading token of a story branch name
type Kind string

const (
	KindStory   Kind = "story"
	KindFeature Kind = "feature"
)

// branchNameRegex matches the full leaf name of a story branch
var branchNameRegex = regexp.MustCompile(`^(story|feature)_([a-z0-9-]+)_([0-9]+)$`)

// Branch is one remote branch that follows the story naming convention.
// Values are built by Parse or NewBranch and never mutated afterwards.
type Branch struct {
	Kind Kind
	Slug string
	// StoryID is the numeric story id, or -1 when the digits in the name
	// do not fit an int.
	StoryID   int
	CreatedAt time.Time
	Author    string

	// id is the digit run exactly as it appears in the name
	id string
}

// NewBranch builds a Branch from its name components.
func NewBranch(kind Kind, slug string, storyID int) Branch {
	return Branch{Kind: kind, Slug: slug, StoryID: storyID, id: strconv.Itoa(storyID)}
}

// Parse parses a leaf ref name such as "story_fix-login_42".
// The second return value is false for names that are not story branches.
func Parse(name string) (Branch, bool) {
	m := branchNameRegex.FindStringSubmatch(name)
	if m == nil {
		return Branch{}, false
	}
	id, err := strconv.Atoi(m[3])
	if err != nil {
		id = -1
	}
	return Branch{Kind: Kind(m[1]), Slug: m[2], StoryID: id, id: m[3]}, true
}

// ID returns the story id as written in the branch name, leading zeros included.
func (b Branch) ID() string {
	if b.id == "" {
		return strconv.Itoa(b.StoryID)
	}
	return b.id
}

// BaseName returns the "{kind}_{slug}_{story_id}" name the branch was parsed from.
func (b Branch) BaseName() string {
	return fmt.Sprintf("%s_%s_%s", b.Kind, b.Slug, b.ID())
}

// String implements fmt.Stringer.
func (b Branch) String() string {
	return b.BaseName()
}

// WithMetadata returns a copy of b carrying the ref's commit date and author.
func (b Branch) WithMetadata(createdAt time.Time, author string) Branch {
	b.CreatedAt = createdAt
	b.Author = author
	return b
}
