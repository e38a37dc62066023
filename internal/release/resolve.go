package release

import (
	"strings"

	storyerrors "gitstory.dev/gitstory/internal/errors"
)

// PreviousKeyword selects the range between the last two releases
const PreviousKeyword = "previous"

// Range is a pair of endpoints for log and diff. An empty endpoint is open.
type Range struct {
	From string
	To   string
}

// String renders the range in git's "from..to" notation.
func (r Range) String() string {
	return r.From + ".." + r.To
}

// LogArgs returns the revision arguments for git log.
func (r Range) LogArgs() []string {
	if r.From == "" {
		if r.To == "" {
			return []string{"HEAD"}
		}
		return []string{r.To}
	}
	return []string{r.From + ".." + r.To}
}

// DiffArgs returns the revision arguments for git diff.
func (r Range) DiffArgs() []string {
	var args []string
	if r.From != "" {
		args = append(args, r.From)
	}
	if r.To != "" {
		args = append(args, r.To)
	}
	return args
}

// Resolve turns what the user typed into a concrete range. An empty ref means
// "everything since the last release".
func Resolve(ref string, tags []Tag) (Range, error) {
	last := ""
	if t, ok := Last(tags); ok {
		last = t.Raw
	}

	switch {
	case ref == "":
		return Range{From: last}, nil
	case ref == PreviousKeyword:
		if len(tags) < 2 {
			return Range{}, storyerrors.ErrNoPreviousRelease
		}
		return Range{From: tags[len(tags)-2].Raw, To: last}, nil
	case strings.Contains(ref, ".."):
		before, after, _ := strings.Cut(ref, "..")
		before = endpoint(tags, before)
		after = endpoint(tags, after)
		switch {
		case before != "" && after != "":
			return Range{From: before, To: after}, nil
		case after != "":
			return Range{From: last, To: after}, nil
		case before != "":
			return Range{From: before}, nil
		default:
			return Range{From: last}, nil
		}
	default:
		return Range{From: endpoint(tags, ref)}, nil
	}
}

func endpoint(tags []Tag, name string) string {
	if name == "" {
		return ""
	}
	if t, ok := Lookup(tags, name); ok {
		return t.Raw
	}
	return name
}
