// Package tui provides the terminal side of git-story.
//
// It handles:
//   - Console output mirrored to a rotating log file (Splog)
//   - The interactive story matcher (bubbletea) and line prompts (survey)
//   - Progress display while statuses are fetched
//   - The watch loop that re-renders a status on a schedule
package tui
