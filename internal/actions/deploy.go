package actions

import (
	"fmt"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/release"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tui"
)

// MigrationsPath is what deploy-migrate-diff limits the diff to
const MigrationsPath = "db/migrate"

const deployLogFormat = "--pretty=tformat:%C(yellow)%h%Creset %C(green)%ci%Creset %s (%Cred%an <%ae>%Creset)"

// DeployOptions specifies options for the deploy-log and deploy-diff commands
type DeployOptions struct {
	// Ref is a tag, "previous", or a "from..to" range. Empty means
	// everything since the last release.
	Ref string
}

// releaseTags fetches tags once and returns the release tags oldest first
func releaseTags(ctx *runtime.Context) ([]release.Tag, error) {
	if err := ctx.Session.FetchTags(runContext(ctx)); err != nil {
		return nil, err
	}
	names, err := ctx.Session.TagNames(runContext(ctx))
	if err != nil {
		return nil, err
	}
	return release.ClassifyAll(names, ctx.Config.DeployTagPrefix), nil
}

func resolveRange(ctx *runtime.Context, ref string) (release.Range, error) {
	tags, err := releaseTags(ctx)
	if err != nil {
		return release.Range{}, err
	}
	rng, err := release.Resolve(ref, tags)
	if err != nil {
		return release.Range{}, err
	}
	ctx.Splog.Debug("Resolved %q to %s", ref, rng)
	return rng, nil
}

// DeployTagsAction prints all release tags, oldest first
func DeployTagsAction(ctx *runtime.Context) error {
	tags, err := releaseTags(ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		ctx.Splog.Info("%s", t.Raw)
	}
	return nil
}

// DeployTagsLastAction prints the most recent release tag
func DeployTagsLastAction(ctx *runtime.Context) error {
	tags, err := releaseTags(ctx)
	if err != nil {
		return err
	}
	last, ok := release.Last(tags)
	if !ok {
		return storyerrors.NewUserInputError("no tags starting with %q", ctx.Config.DeployTagPrefix)
	}
	ctx.Splog.Info("%s", last.Raw)
	return nil
}

// DeployLogAction prints the commits in the resolved range
func DeployLogAction(ctx *runtime.Context, opts DeployOptions) error {
	rng, err := resolveRange(ctx, opts.Ref)
	if err != nil {
		return err
	}
	out, err := ctx.Session.Log(runContext(ctx), rng.LogArgs(), diffColorOption(ctx), deployLogFormat)
	if err != nil {
		return fmt.Errorf("failed to log %s: %w", rng, err)
	}
	ctx.Splog.Page(out)
	return nil
}

// DeployDiffAction prints the diff of the resolved range
func DeployDiffAction(ctx *runtime.Context, opts DeployOptions) error {
	return deployDiff(ctx, opts, nil)
}

// DeployMigrateDiffAction prints the diff of the resolved range limited to
// database migrations
func DeployMigrateDiffAction(ctx *runtime.Context, opts DeployOptions) error {
	return deployDiff(ctx, opts, []string{MigrationsPath})
}

func deployDiff(ctx *runtime.Context, opts DeployOptions, paths []string) error {
	rng, err := resolveRange(ctx, opts.Ref)
	if err != nil {
		return err
	}
	out, err := ctx.Session.Diff(runContext(ctx), rng.DiffArgs(), paths, diffColorOption(ctx), "-u")
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", rng, err)
	}
	ctx.Splog.Page(out)
	return nil
}

func diffColorOption(ctx *runtime.Context) string {
	if tui.IsTerminal(ctx.Splog.Writer()) {
		return "--color"
	}
	return "--no-color"
}
