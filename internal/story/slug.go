package story

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxBranchNameByteLength is the branch name limit of the hosting service
const MaxBranchNameByteLength = 128

var (
	slugReplaceRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRegex  = regexp.MustCompile(`-+`)
	slugLeadingRegex = regexp.MustCompile(`^[-0-9]+`)
	slugTrailRegex   = regexp.MustCompile(`[-0-9]+$`)
)

// letters that do not decompose into base letter + combining mark
var transliterations = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ł", "l",
	"ı", "i",
)

// Slugify normalizes free text (a story title) into a slug made of [a-z0-9-].
// maxLen bounds the slug itself; use SlugBudget to derive it from a name limit.
func Slugify(text string, maxLen int) string {
	s := strings.ToLower(text)
	s = transliterations.Replace(s)
	s = stripMarks(s)
	s = slugReplaceRegex.ReplaceAllString(s, "-")
	s = slugHyphenRegex.ReplaceAllString(s, "-")
	s = slugLeadingRegex.ReplaceAllString(s, "")
	s = slugTrailRegex.ReplaceAllString(s, "")
	if maxLen >= 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SlugBudget returns how many bytes a slug may use so that
// "{kind}_{slug}_{storyID}" stays within maxNameLen.
func SlugBudget(kind Kind, storyID int, maxNameLen int) int {
	fixed := len(kind) + len("_") + len("_") + len(strconv.Itoa(storyID))
	budget := maxNameLen - fixed
	if budget < 0 {
		return 0
	}
	return budget
}

// NameFor mints a new story branch from a story title.
func NameFor(kind Kind, title string, storyID int, maxNameLen int) (Branch, error) {
	if maxNameLen <= 0 {
		maxNameLen = MaxBranchNameByteLength
	}
	slug := Slugify(title, SlugBudget(kind, storyID, maxNameLen))
	if slug == "" {
		return Branch{}, fmt.Errorf("could not derive a branch name from %q", title)
	}
	return NewBranch(kind, slug, storyID), nil
}
