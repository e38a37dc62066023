package actions

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tracker"
	"gitstory.dev/gitstory/internal/tui/style"
)

// ListOptions specifies options for the list command
type ListOptions struct {
	Author  string // Only stories whose author contains this
	Details bool   // Newest first, with author and age
}

// ListAction prints every story branch, the checked out one in red
func ListAction(ctx *runtime.Context, opts ListOptions) error {
	refreshStories(ctx)

	var branches []story.Branch
	var err error
	if opts.Author != "" {
		branches, err = ctx.Registry.FilterByAuthor(runContext(ctx), opts.Author)
	} else {
		branches, err = ctx.Registry.List(runContext(ctx))
	}
	if err != nil {
		return err
	}
	if opts.Details {
		branches = story.SortByCreatedDesc(branches)
	}

	current, err := ctx.Session.CurrentBranch(runContext(ctx))
	if err != nil {
		return err
	}

	for _, b := range branches {
		name := style.ColorBranchName(b.BaseName(), b.BaseName() == current)
		if !opts.Details {
			ctx.Splog.Info("%s", name)
			continue
		}
		ctx.Splog.Info("%s %s %s", name, style.ColorDim(b.Author), style.ColorCyan(humanize.RelTime(b.CreatedAt, ctx.Now(), "ago", "from now")))
	}
	return nil
}

// CurrentAction prints the checked out story branch
func CurrentAction(ctx *runtime.Context) error {
	_, current, err := currentStory(ctx)
	if err != nil {
		return err
	}
	ctx.Splog.Info("%s", current)
	return nil
}

// DetailsOptions specifies options for the details command
type DetailsOptions struct {
	StoryID string // Defaults to the checked out story
}

// DetailsAction prints a story's branch and its tracker data
func DetailsAction(ctx *runtime.Context, opts DetailsOptions) error {
	var storyID int
	if opts.StoryID == "" {
		branch, _, err := currentStory(ctx)
		if err != nil {
			return err
		}
		storyID, err = storyIDOf(branch)
		if err != nil {
			return err
		}
	} else {
		id, err := parseStoryID(opts.StoryID)
		if err != nil {
			return err
		}
		storyID = id
	}

	refreshStories(ctx)
	branch, found, err := ctx.Registry.FindByID(runContext(ctx), storyID)
	if err != nil {
		return err
	}

	var b strings.Builder
	if found {
		fmt.Fprintf(&b, "%s\n", style.ColorBranchName(branch.BaseName(), false))
		fmt.Fprintf(&b, "  Author:  %s\n", branch.Author)
		fmt.Fprintf(&b, "  Created: %s (%s)\n", branch.CreatedAt.Format("2006-01-02 15:04"), humanize.RelTime(branch.CreatedAt, ctx.Now(), "ago", "from now"))
	} else {
		fmt.Fprintf(&b, "%s\n", style.ColorDim(fmt.Sprintf("No branch for story #%d on %s", storyID, ctx.Session.Remote())))
	}

	tracked, err := ctx.Tracker.Story(runContext(ctx), storyID)
	if err != nil {
		return err
	}
	if tracked == nil {
		ctx.Splog.Info("%s", strings.TrimRight(b.String(), "\n"))
		ctx.Splog.Tip("Set PIVOTAL_TOKEN and pivotal_project to see tracker details.")
		return nil
	}

	owners, err := ctx.Tracker.Owners(runContext(ctx), storyID)
	if err != nil {
		return err
	}
	ownerNames := make([]string, 0, len(owners))
	for _, o := range owners {
		ownerNames = append(ownerNames, o.Name)
	}

	fmt.Fprintf(&b, "  Name:     %s\n", style.Bold(tracked.Name))
	fmt.Fprintf(&b, "  State:    %s\n", tracked.CurrentState)
	fmt.Fprintf(&b, "  Type:     %s\n", tracked.StoryType)
	fmt.Fprintf(&b, "  Estimate: %s\n", humanize.Ftoa(tracked.Estimate))
	if len(ownerNames) > 0 {
		fmt.Fprintf(&b, "  Owners:   %s\n", strings.Join(ownerNames, ", "))
	}
	url := tracked.URL
	if url == "" {
		url = tracker.StoryURL(storyID)
	}
	fmt.Fprintf(&b, "  URL:      %s", url)

	ctx.Splog.Info("%s", b.String())
	return nil
}
