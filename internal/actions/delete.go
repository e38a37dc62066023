package actions

import (
	"errors"
	"fmt"

	storyerrors "gitstory.dev/gitstory/internal/errors"
	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tui"
	"gitstory.dev/gitstory/internal/tui/style"
)

// DeleteOptions specifies options for the delete command
type DeleteOptions struct {
	Pattern string
	Force   bool       // Skip the confirmation
	Select  SelectFunc // Defaults to the interactive matcher
	// Confirm asks a yes/no question; defaults to tui.Confirm
	Confirm func(prompt string, defaultValue bool) (bool, error)
}

// DeleteAction removes a story branch locally and on the remote
func DeleteAction(ctx *runtime.Context, opts DeleteOptions) error {
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
		return storyerrors.NewUserInputError("Cannot delete %s while it is checked out, switch to another branch first", name)
	}

	if !opts.Force {
		confirm := opts.Confirm
		if confirm == nil {
			confirm = tui.Confirm
		}
		ok, err := confirm(fmt.Sprintf("Delete %s locally and on %s?", name, ctx.Session.Remote()), false)
		if err != nil {
			if errors.Is(err, storyerrors.ErrInterrupted) {
				return nil
			}
			if errors.Is(err, tui.ErrInteractiveDisabled) {
				return storyerrors.NewUserInputError("refusing to delete %s without confirmation, pass --force", name)
			}
			return err
		}
		if !ok {
			ctx.Splog.Info("Aborted.")
			return nil
		}
	}

	if err := ctx.Session.DeleteBranch(runContext(ctx), name, true); err != nil {
		return err
	}
	ctx.Splog.Info("Deleted %s.", style.ColorRed(name))
	return nil
}
