// Package git is the version-control collaborator of git-story.
//
// Reads (remote branches with their last commit, tags, HEAD, remote URLs)
// go through go-git. Fetching, logging, diffing and branch changes run the
// git binary so that the user's credentials and hooks apply.
//
// A Session remembers which fetches already ran so that every command talks
// to the remote at most once.
package git
