package release_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/release"
)

func tagsOf(raws ...string) []release.Tag {
	tags := make([]release.Tag, 0, len(raws))
	for _, raw := range raws {
		tags = append(tags, release.Classify(raw))
	}
	return tags
}

func TestResolve(t *testing.T) {
	t1 := "production_deploy_2024_03_01-10_30"
	t2 := "production_deploy_2024_03_02-09_00"
	tags := tagsOf(t1, t2)

	tests := []struct {
		name string
		ref  string
		tags []release.Tag
		want release.Range
	}{
		{"absent ref starts at the last tag", "", tags, release.Range{From: t2}},
		{"absent ref without tags is the whole history", "", nil, release.Range{}},
		{"previous spans the last two tags", "previous", tags, release.Range{From: t1, To: t2}},
		{"both endpoints verbatim", "a..b", tags, release.Range{From: "a", To: "b"}},
		{"both endpoints without tags", "a..b", nil, release.Range{From: "a", To: "b"}},
		{"only after", "..b", tags, release.Range{From: t2, To: "b"}},
		{"only before", "a..", tags, release.Range{From: "a"}},
		{"bare separator", "..", tags, release.Range{From: t2}},
		{"single token", "HEAD~3", tags, release.Range{From: "HEAD~3"}},
		{"location-qualified tag is canonicalized", t1 + "_cet..", tags, release.Range{From: t1}},
		{"location-qualified tag as single token", t1 + "_cet", tags, release.Range{From: t1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := release.Resolve(tt.ref, tt.tags)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_PreviousNeedsTwoTags(t *testing.T) {
	for _, tags := range [][]release.Tag{nil, tagsOf("production_deploy_2024_03_01-10_30")} {
		_, err := release.Resolve("previous", tags)
		require.True(t, errors.Is(err, storyerrors.ErrNoPreviousRelease))
	}
}

func TestRange_Args(t *testing.T) {
	require.Equal(t, []string{"a..b"}, release.Range{From: "a", To: "b"}.LogArgs())
	require.Equal(t, []string{"a.."}, release.Range{From: "a"}.LogArgs())
	require.Equal(t, []string{"HEAD"}, release.Range{}.LogArgs())
	require.Equal(t, []string{"b"}, release.Range{To: "b"}.LogArgs())

	require.Equal(t, []string{"a", "b"}, release.Range{From: "a", To: "b"}.DiffArgs())
	require.Equal(t, []string{"a"}, release.Range{From: "a"}.DiffArgs())
	require.Empty(t, release.Range{}.DiffArgs())

	require.Equal(t, "a..b", release.Range{From: "a", To: "b"}.String())
}
