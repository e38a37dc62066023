package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [pattern]",
		Short: "Delete a story branch locally and on the remote",
		Long: `Delete a story branch locally and on the remote.

The branch is chosen the same way as for switch. The checked out branch
cannot be deleted. Asks for confirmation unless --force is given.`,
		Aliases:           []string{"rm"},
		GroupID:           groupStories,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteStories,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.DeleteOptions{Force: force}
			if len(args) > 0 {
				opts.Pattern = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.DeleteAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without asking")

	return cmd
}
