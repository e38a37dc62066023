// Package errors provides sentinel errors and custom error types for git-story.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrUserInput indicates the user supplied missing or unusable input
	ErrUserInput = errors.New("invalid input")

	// ErrStoryExists indicates a story branch already exists for a story id
	ErrStoryExists = errors.New("story already exists")

	// ErrTransport indicates a network or remote service failure
	ErrTransport = errors.New("transport error")

	// ErrUnauthorized indicates the remote service rejected our credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInterrupted indicates the user canceled an interactive prompt
	ErrInterrupted = errors.New("interrupted")

	// ErrNoPreviousRelease indicates "previous" was requested with fewer than two release tags
	ErrNoPreviousRelease = errors.New("need at least two release tags to resolve \"previous\"")
)

// UserInputError is reported to the user with a corrective message
type UserInputError struct {
	Message string
}

func (e *UserInputError) Error() string {
	return e.Message
}

// Is returns true if the target error is ErrUserInput
func (e *UserInputError) Is(target error) bool {
	return target == ErrUserInput
}

// NewUserInputError creates a new UserInputError
func NewUserInputError(format string, args ...any) *UserInputError {
	return &UserInputError{Message: fmt.Sprintf(format, args...)}
}

// StoryExistsError is returned when creating a story whose id already has a branch
type StoryExistsError struct {
	StoryID int
	Branch  string
}

func (e *StoryExistsError) Error() string {
	return fmt.Sprintf("story #%d already exists in %s", e.StoryID, e.Branch)
}

// Is returns true if the target error is ErrStoryExists
func (e *StoryExistsError) Is(target error) bool {
	return target == ErrStoryExists
}

// NewStoryExistsError creates a new StoryExistsError
func NewStoryExistsError(storyID int, branch string) *StoryExistsError {
	return &StoryExistsError{StoryID: storyID, Branch: branch}
}

// TransportError wraps a failure of the HTTP layer
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetching %s failed", e.URL)
	}
}

// Is returns true if the target error is ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError
func NewTransportError(url string, statusCode int, err error) *TransportError {
	return &TransportError{URL: url, StatusCode: statusCode, Err: err}
}

// AuthError is returned when a remote service answers 401
type AuthError struct {
	URL string
	// TokenHint names where the token comes from, e.g. "PIVOTAL_TOKEN".
	TokenHint string
}

func (e *AuthError) Error() string {
	hint := e.TokenHint
	if hint == "" {
		hint = "the configured API token"
	}
	return fmt.Sprintf("fetching %s: 401 Unauthorized: API token in %s invalid?", e.URL, hint)
}

// Is returns true if the target error is ErrUnauthorized
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewAuthError creates a new AuthError
func NewAuthError(url, tokenHint string) *AuthError {
	return &AuthError{URL: url, TokenHint: tokenHint}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
