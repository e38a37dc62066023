package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create [story-id]",
		Short: "Start a story branch named after a tracker story",
		Long: `Start a story branch named after a tracker story.

The branch is named story_<slug>_<id> where the slug comes from the story's
name in Pivotal Tracker. It is checked out and pushed with upstream tracking.
Prompts for the story id when none is given. A story that already has a
branch is rejected.`,
		Aliases: []string{"c"},
		GroupID: groupStories,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.CreateOptions{Title: title}
			if len(args) > 0 {
				opts.StoryID = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CreateAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Name the branch after this title instead of the tracker story")

	return cmd
}
