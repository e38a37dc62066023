package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newSwitchCmd creates the switch command
func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch [pattern]",
		Short: "Check out a story branch",
		Long: `Check out a story branch.

A pattern matching exactly one story branch switches to it directly; a
leading # is ignored so "#123" finds story 123. Otherwise an interactive
matcher lets you pick one.`,
		Aliases:           []string{"sw", "co"},
		GroupID:           groupStories,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteStories,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.SwitchOptions{}
			if len(args) > 0 {
				opts.Pattern = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SwitchAction(ctx, opts)
			})
		},
	}
}
