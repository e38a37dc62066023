package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	var opts actions.ListOptions

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the story branches on the remote",
		Aliases: []string{"ls"},
		GroupID: groupStories,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ListAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Author, "author", "a", "", "Only show stories whose last author matches")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Show author and age, newest first")

	return cmd
}
