package actions

import (
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tui/style"
)

// SwitchOptions specifies options for the switch command
type SwitchOptions struct {
	Pattern string     // Substring of the story branch, "#" is ignored
	Select  SelectFunc // Defaults to the interactive matcher
}

// SwitchAction checks out the story branch matching the pattern, asking the
// user to pick one when the pattern is empty or ambiguous
func SwitchAction(ctx *runtime.Context, opts SwitchOptions) error {
	refreshStories(ctx)

	name, err := resolveStoryBranch(ctx, opts.Pattern, opts.Select)
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}

	current, err := ctx.Session.CurrentBranch(runContext(ctx))
	if err != nil {
		return err
	}
	if current == name {
		ctx.Splog.Info("Already on %s.", style.ColorBranchName(name, true))
		return nil
	}

	if err := ctx.Session.Checkout(runContext(ctx), name); err != nil {
		return err
	}
	ctx.Splog.Info("%s", style.ColorGreen("Switched to story: "+name))
	return nil
}
