package story_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstory.dev/gitstory/internal/story"
)

func TestParse(t *testing.T) {
	t.Run("parses story branches and round-trips the base name", func(t *testing.T) {
		names := []string{
			"story_fix-login_42",
			"feature_new-checkout-flow_123456",
			"story_v2_7",
			"story_a_0",
			"feature_9-lives_99",
			"story_fix-login_042",
			"story_x_" + strings.Repeat("9", 40),
		}
		for _, name := range names {
			b, ok := story.Parse(name)
			require.True(t, ok, name)
			require.Equal(t, name, b.BaseName())

			again, ok := story.Parse(b.BaseName())
			require.True(t, ok)
			require.Equal(t, b, again)
		}
	})

	t.Run("extracts kind, slug and id", func(t *testing.T) {
		b, ok := story.Parse("story_fix-login_42")
		require.True(t, ok)
		require.Equal(t, story.KindStory, b.Kind)
		require.Equal(t, "fix-login", b.Slug)
		require.Equal(t, 42, b.StoryID)

		b, ok = story.Parse("feature_search_7")
		require.True(t, ok)
		require.Equal(t, story.KindFeature, b.Kind)
	})

	t.Run("rejects everything else", func(t *testing.T) {
		names := []string{
			"",
			"main",
			"story_fix-login",
			"story__42",
			"Story_fix_42",
			"story_Fix-login_42",
			"bug_fix-login_42",
			"story_fix_login_42_",
			"story_fix login_42",
			"origin/story_fix-login_42",
			"story_fix-login_42-abcdef",
			"story_fix-login_x42",
			"xstory_fix-login_42",
		}
		for _, name := range names {
			_, ok := story.Parse(name)
			require.False(t, ok, name)
		}
	})

	t.Run("keeps leading zeros", func(t *testing.T) {
		b, ok := story.Parse("story_fix-login_042")
		require.True(t, ok)
		require.Equal(t, 42, b.StoryID)
		require.Equal(t, "042", b.ID())
		require.Equal(t, "story_fix-login_042", b.BaseName())
		require.NotEqual(t, story.NewBranch(story.KindStory, "fix-login", 42), b)
	})

	t.Run("accepts ids too large for an int", func(t *testing.T) {
		digits := strings.Repeat("9", 25)
		b, ok := story.Parse("feature_huge_" + digits)
		require.True(t, ok)
		require.Equal(t, -1, b.StoryID)
		require.Equal(t, digits, b.ID())
		require.Equal(t, "feature_huge_"+digits, b.BaseName())
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases and hyphenates", "Fix Login Page", "fix-login-page"},
		{"transliterates diacritics", "Über Café für Jürgen", "uber-cafe-fur-jurgen"},
		{"handles letters without decomposition", "Straße Ærø", "strasse-aero"},
		{"collapses separators", "fix -- the   bug!!", "fix-the-bug"},
		{"strips leading and trailing digits", "2024 release notes v2", "release-notes-v"},
		{"strips leading and trailing hyphens", "--hello--", "hello"},
		{"keeps inner digits", "upgrade to rails 7 now", "upgrade-to-rails-7-now"},
		{"empty when nothing usable", "!!! 123 ???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, story.Slugify(tt.input, 100))
		})
	}
}

func TestSlugify_Properties(t *testing.T) {
	inputs := []string{
		"A very long story title " + strings.Repeat("with many words ", 20),
		"Ünïcödé everywhere: ñ, ç, å, é, ø",
		"-leading and trailing-",
		strings.Repeat("x-", 100),
		"日本語のタイトル and ascii",
	}
	for _, input := range inputs {
		for _, id := range []int{1, 42, 123456789} {
			budget := story.SlugBudget(story.KindStory, id, story.MaxBranchNameByteLength)
			slug := story.Slugify(input, budget)

			for _, r := range slug {
				require.True(t, (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-', "unexpected rune %q in %q", r, slug)
			}
			require.False(t, strings.HasPrefix(slug, "-"), slug)
			require.False(t, strings.HasSuffix(slug, "-"), slug)

			name := story.NewBranch(story.KindStory, slug, id).BaseName()
			require.LessOrEqual(t, len(name), story.MaxBranchNameByteLength)
		}
	}
}

func TestNameFor(t *testing.T) {
	t.Run("mints a parseable name", func(t *testing.T) {
		b, err := story.NameFor(story.KindStory, "Fix the login page", 42, 0)
		require.NoError(t, err)
		require.Equal(t, "story_fix-the-login-page_42", b.BaseName())

		parsed, ok := story.Parse(b.BaseName())
		require.True(t, ok)
		require.Equal(t, b, parsed)
	})

	t.Run("respects the name limit", func(t *testing.T) {
		b, err := story.NameFor(story.KindStory, strings.Repeat("word ", 50), 1234, 40)
		require.NoError(t, err)
		require.LessOrEqual(t, len(b.BaseName()), 40)
	})

	t.Run("fails for titles without usable characters", func(t *testing.T) {
		_, err := story.NameFor(story.KindStory, "???", 1, 0)
		require.Error(t, err)
	})
}
