package actions

import (
	"context"
	"errors"
	"slices"
	"strconv"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tui"
)

// SelectFunc picks one of candidates interactively, starting from query
type SelectFunc func(prompt, query string, candidates []string) (string, error)

// storyPrompt is shown by the interactive story matcher
const storyPrompt = "Story? "

func runContext(ctx *runtime.Context) context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// refreshStories fetches the remote once per run. Failing to reach the
// remote is not fatal for read-only commands; the local view is used instead.
func refreshStories(ctx *runtime.Context) {
	if err := ctx.Session.FetchCommits(runContext(ctx)); err != nil {
		ctx.Splog.Warn("Could not fetch %s, showing local state: %v", ctx.Session.Remote(), err)
	}
}

// currentStory returns the checked out story branch
func currentStory(ctx *runtime.Context) (story.Branch, string, error) {
	current, err := ctx.Session.CurrentBranch(runContext(ctx))
	if err != nil {
		return story.Branch{}, "", err
	}
	branch, ok := story.Parse(current)
	if !ok {
		return story.Branch{}, current, storyerrors.NewUserInputError("Switch to a story branch first for this operation!")
	}
	return branch, current, nil
}

// storyIDOf returns the numeric id of a story branch
func storyIDOf(branch story.Branch) (int, error) {
	if branch.StoryID < 0 {
		return 0, storyerrors.NewUserInputError("story id %s of %s is too large", branch.ID(), branch.BaseName())
	}
	return branch.StoryID, nil
}

// parseStoryID accepts "123", "#123" or a story branch name
func parseStoryID(raw string) (int, error) {
	if branch, ok := story.Parse(raw); ok {
		return storyIDOf(branch)
	}
	digits := story.ExtractStoryID(raw)
	if digits == "" {
		return 0, storyerrors.NewUserInputError("%q is not a story id", raw)
	}
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, storyerrors.NewUserInputError("%q is not a story id", raw)
	}
	return id, nil
}

// resolveStoryBranch turns a pattern into exactly one story branch name. A
// single substring match is taken directly; otherwise the user picks one.
// An empty result with a nil error means the user canceled.
func resolveStoryBranch(ctx *runtime.Context, pattern string, selectFn SelectFunc) (string, error) {
	names, err := ctx.Registry.Names(runContext(ctx))
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", storyerrors.NewUserInputError("no story branches on %s", ctx.Session.Remote())
	}

	var matches []string
	if pattern != "" {
		matches = story.Matches(pattern, names)
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	if selectFn == nil {
		selectFn = tui.SelectStory
	}
	for {
		selected, err := selectFn(storyPrompt, pattern, names)
		switch {
		case errors.Is(err, storyerrors.ErrInterrupted):
			return "", nil
		case errors.Is(err, tui.ErrInteractiveDisabled):
			if pattern == "" {
				return "", storyerrors.NewUserInputError("a story pattern is required")
			}
			if len(matches) == 0 {
				return "", storyerrors.NewUserInputError("no story matches %q", pattern)
			}
			return "", storyerrors.NewUserInputError("%d stories match %q, be more specific", len(matches), pattern)
		case err != nil:
			return "", err
		}
		if selected == "" {
			return "", nil
		}
		if slices.Contains(names, selected) {
			return selected, nil
		}
		pattern = selected
	}
}
