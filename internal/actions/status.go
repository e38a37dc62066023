package actions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gitstory.dev/gitstory/internal/ci"
	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tui"
)

// WatchOptions re-runs a status command on a schedule
type WatchOptions struct {
	Watch bool
	// Interval is a duration ("30s") or cron spec ("@every 1m"); defaults
	// to the configured watch_interval
	Interval string
}

// BuildStatusOptions specifies options for the build-status command
type BuildStatusOptions struct {
	WatchOptions
	StoryIDs []string // Defaults to the checked out story
}

// DeployStatusOptions specifies options for the deploy-status command
type DeployStatusOptions struct {
	WatchOptions
	Server string // Defaults to the configured deploy_server
}

// BuildStatusAction prints the CI build status of one or more stories
func BuildStatusAction(ctx *runtime.Context, opts BuildStatusOptions) error {
	ids, err := buildStatusIDs(ctx, opts.StoryIDs)
	if err != nil {
		return err
	}
	refreshStories(ctx)

	render := func(runCtx context.Context) (string, error) {
		return renderBuildStatuses(ctx, runCtx, ids)
	}
	return runStatus(ctx, opts.WatchOptions, render)
}

// DeployStatusAction prints the CI deploy status of a server
func DeployStatusAction(ctx *runtime.Context, opts DeployStatusOptions) error {
	server := opts.Server
	if server == "" {
		server = ctx.Config.DeployServer
	}
	render := func(runCtx context.Context) (string, error) {
		return ctx.Reporter.Server(runCtx, server)
	}
	return runStatus(ctx, opts.WatchOptions, render)
}

func buildStatusIDs(ctx *runtime.Context, raw []string) ([]int, error) {
	if len(raw) == 0 {
		branch, _, err := currentStory(ctx)
		if err != nil {
			return nil, err
		}
		id, err := storyIDOf(branch)
		if err != nil {
			return nil, err
		}
		return []int{id}, nil
	}
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		id, err := parseStoryID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// renderBuildStatuses fetches every story's status concurrently. A failed
// fetch shows up as that story's error line.
func renderBuildStatuses(ctx *runtime.Context, runCtx context.Context, ids []int) (string, error) {
	branches, err := ctx.Registry.List(runCtx)
	if err != nil {
		return "", err
	}

	fetch := func(fetchCtx context.Context, storyID int) (string, error) {
		branch, ok := story.FindByID(branches, storyID)
		if !ok {
			return "", storyerrors.NewUserInputError("no branch for story #%d on %s", storyID, ctx.Session.Remote())
		}
		text, err := ctx.Reporter.Branch(fetchCtx, branch.BaseName())
		if err != nil {
			return "", fmt.Errorf("story #%d: %w", storyID, err)
		}
		return text, nil
	}

	aggregatorOpts := []ci.AggregatorOption{ci.WithConcurrency(ctx.Config.Concurrency)}
	var progress *tui.ProgressLine
	if len(ids) > 1 {
		progress = tui.NewProgressLine(os.Stderr, "Fetching build status")
		aggregatorOpts = append(aggregatorOpts, ci.WithProgress(progress.Update))
	}

	entries := ci.NewAggregator(fetch, aggregatorOpts...).FetchAll(runCtx, ids)
	if progress != nil {
		progress.Clear()
	}

	for _, e := range entries {
		if e.Err != nil {
			ctx.Splog.Debug("story #%d: %v", e.StoryID, e.Err)
		}
	}
	return strings.Join(ci.Texts(entries), "\n"), nil
}

func runStatus(ctx *runtime.Context, opts WatchOptions, render func(context.Context) (string, error)) error {
	if !opts.Watch {
		text, err := render(runContext(ctx))
		if err != nil {
			return err
		}
		ctx.Splog.Info("%s", text)
		return nil
	}

	interval := opts.Interval
	if interval == "" {
		interval = ctx.Config.WatchInterval
	}
	schedule, err := tui.ParseInterval(interval)
	if err != nil {
		return storyerrors.NewUserInputError("%v", err)
	}
	ctx.Splog.Debug("Watching every %s", interval)
	if err := tui.NewWatcher(ctx.Splog.Writer(), schedule).Run(runContext(ctx), render); err != nil {
		return fmt.Errorf("watch stopped: %w", err)
	}
	return nil
}
