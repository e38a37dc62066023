// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a git-story command (list, create, switch,
// deploy-log, build-status, ...) and orchestrates the story registry, the
// release range resolver, the git session and the tracker and CI clients.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog, Session and the clients
//   - Interactive steps (matcher, prompts, browser) can be replaced through the options
//   - User-facing failures are returned as errors from internal/errors
package actions
