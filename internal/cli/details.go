package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newDetailsCmd creates the details command
func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details [story-id]",
		Short: "Show a story's branch and tracker details",
		Long: `Show a story's branch, author and age together with the tracker's name,
state, type, estimate and owners.

Defaults to the checked out story. The id may be given as 123, #123 or as a
story branch name.`,
		GroupID: groupStories,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.DetailsOptions{}
			if len(args) > 0 {
				opts.StoryID = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.DetailsAction(ctx, opts)
			})
		},
	}
}
