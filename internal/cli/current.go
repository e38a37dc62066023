package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
)

// newCurrentCmd creates the current command
func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Short:   "Print the checked out story branch",
		GroupID: groupStories,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.CurrentAction)
		},
	}
}
