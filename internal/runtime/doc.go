// Package runtime provides the execution context for git-story commands.
//
// It bundles the loaded configuration, the logger, the git session that
// memoizes fetches, the story registry and the tracker and CI clients.
package runtime
