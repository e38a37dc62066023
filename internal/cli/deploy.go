package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

const rangeHelp = `RANGE is a release boundary:
  (none)        everything since the latest release tag
  previous      the latest release, i.e. second latest..latest
  TAG           everything since TAG
  A..B          between two refs, either side may be a release tag`

// newDeployTagsCmd creates the deploy-tags command
func newDeployTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deploy-tags",
		Short:   "List release tags, oldest first",
		GroupID: groupReleases,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.DeployTagsAction)
		},
	}
}

// newDeployTagsLastCmd creates the deploy-tags-last command
func newDeployTagsLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "deploy-tags-last",
		Short:   "Print the latest release tag",
		GroupID: groupReleases,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.DeployTagsLastAction)
		},
	}
}

// newDeployLogCmd creates the deploy-log command
func newDeployLogCmd() *cobra.Command {
	return newRangeCmd("deploy-log", "Show the commits of a release range", actions.DeployLogAction)
}

// newDeployDiffCmd creates the deploy-diff command
func newDeployDiffCmd() *cobra.Command {
	return newRangeCmd("deploy-diff", "Show the diff of a release range", actions.DeployDiffAction)
}

// newDeployMigrateDiffCmd creates the deploy-migrate-diff command
func newDeployMigrateDiffCmd() *cobra.Command {
	return newRangeCmd("deploy-migrate-diff", "Show the database migrations of a release range", actions.DeployMigrateDiffAction)
}

func newRangeCmd(use, short string, action func(*runtime.Context, actions.DeployOptions) error) *cobra.Command {
	return &cobra.Command{
		Use:     use + " [RANGE]",
		Short:   short,
		Long:    short + ".\n\n" + rangeHelp,
		GroupID: groupReleases,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.DeployOptions{}
			if len(args) > 0 {
				opts.Ref = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return action(ctx, opts)
			})
		},
	}
}
