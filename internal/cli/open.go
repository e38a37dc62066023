package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// newOpenCmd creates the open command
func newOpenCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "open [" + strings.Join(actions.OpenTargets, "|") + "]",
		Short: "Open a page related to the checked out story",
		Long: `Open a page related to the checked out story in the browser: the tracker
story (default), its latest CI build, or the HEAD commit or branch on the
forge. Set GIT_STORY_BROWSER to choose the browser command.`,
		GroupID:   groupStories,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: actions.OpenTargets,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.OpenOptions{Print: printOnly}
			if len(args) > 0 {
				opts.Target = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.OpenAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&printOnly, "print", "p", false, "Print the URL instead of opening it")

	return cmd
}
