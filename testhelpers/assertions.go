package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectBranches asserts the local branches of repo, in any order
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()
	output, err := repo.RunGitCommandAndGetOutput("for-each-ref", "refs/heads/", "--format=%(refname:short)")
	require.NoError(t, err, "Failed to list branches")
	require.Equal(t, sorted(expected), sorted(splitLines(output)), "Branches do not match")
}

// ExpectRemoteBranches asserts the branches of the bare remote, in any order
func ExpectRemoteBranches(t *testing.T, repo *GitRepo, remote string, expected []string) {
	t.Helper()
	output, err := repo.RunGitCommandAndGetOutput("ls-remote", "--heads", remote)
	require.NoError(t, err, "Failed to list remote branches")

	var branches []string
	for _, line := range splitLines(output) {
		fields := strings.Fields(line)
		branches = append(branches, strings.TrimPrefix(fields[len(fields)-1], "refs/heads/"))
	}
	require.Equal(t, sorted(expected), sorted(branches), "Remote branches do not match")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func sorted(items []string) []string {
	out := append([]string{}, items...)
	sort.Strings(out)
	return out
}
