package actions

import (
	"errors"
	"strings"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tui"
	"gitstory.dev/gitstory/internal/tui/style"
)

// CreateOptions specifies options for the create command
type CreateOptions struct {
	StoryID string // Asked for when empty
	Title   string // Overrides the tracker's story name
	// Ask reads a line from the user; defaults to tui.AskRequired
	Ask func(prompt string) (string, error)
}

// CreateAction starts a story: it mints story_<slug>_<id> from the tracker's
// story name, checks it out and pushes it with upstream tracking. Creating a
// second branch for a story that already has one is rejected before anything
// is changed.
func CreateAction(ctx *runtime.Context, opts CreateOptions) error {
	if err := ctx.Session.FetchCommits(runContext(ctx)); err != nil {
		return err
	}

	ask := opts.Ask
	if ask == nil {
		ask = tui.AskRequired
	}
	rawID := strings.TrimSpace(opts.StoryID)
	for rawID == "" {
		answer, err := ask("Story id? ")
		if errors.Is(err, storyerrors.ErrInterrupted) {
			return nil
		}
		if errors.Is(err, tui.ErrInteractiveDisabled) {
			return storyerrors.NewUserInputError("a story id is required")
		}
		if err != nil {
			return err
		}
		rawID = strings.TrimSpace(answer)
	}
	storyID, err := parseStoryID(rawID)
	if err != nil {
		return err
	}

	existing, found, err := ctx.Registry.FindByID(runContext(ctx), storyID)
	if err != nil {
		return err
	}
	if found {
		return storyerrors.NewStoryExistsError(storyID, existing.BaseName())
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title, err = ctx.Tracker.StoryName(runContext(ctx), storyID)
		if err != nil {
			return err
		}
	}
	if title == "" {
		return storyerrors.NewUserInputError("Could not create a story name for story id %d", storyID)
	}

	branch, err := story.NameFor(story.KindStory, title, storyID, ctx.Config.MaxBranchNameLength)
	if err != nil {
		return storyerrors.NewUserInputError("Could not create a story name for story id %d: %v", storyID, err)
	}
	name := branch.BaseName()

	ctx.Splog.Info("%s", style.ColorGreen("Now starting story \""+name+"\""))
	if err := ctx.Session.CreateBranch(runContext(ctx), name, true); err != nil {
		return err
	}
	ctx.Splog.Info("%s", style.ColorGreen("Story "+name+" started."))
	return nil
}
