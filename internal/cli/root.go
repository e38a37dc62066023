// Package cli builds the git-story command tree.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/cli/helpers"
	storyerrors "gitstory.dev/gitstory/internal/errors"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-story",
		Short: "git-story works with story branches, release tags and CI status",
		Long: `git-story is a command line tool for teams that name branches after tracker
stories (story_<slug>_<id>), deploy by pushing release tags and watch their CI.

It lists and switches between story branches, starts new ones from a Pivotal
Tracker story, shows what changed since the last release and reports build and
deploy status.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Usage()
			return storyerrors.NewUserInputError("unknown command %q, see git-story help", strings.Join(args, " "))
		},
	}

	rootCmd.PersistentFlags().Bool(helpers.FlagDebug, false, "Write debug output, including raw API responses")
	rootCmd.PersistentFlags().String(helpers.FlagConfig, "", "Path to the configuration file (default config/story.yml)")
	rootCmd.PersistentFlags().Bool(helpers.FlagNoColor, false, "Disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupStories, Title: "Stories:"},
		&cobra.Group{ID: groupReleases, Title: "Releases:"},
		&cobra.Group{ID: groupStatus, Title: "Status:"},
	)

	rootCmd.AddCommand(
		newListCmd(),
		newCurrentCmd(),
		newDetailsCmd(),
		newCreateCmd(),
		newSwitchCmd(),
		newDeleteCmd(),
		newOpenCmd(),
		newDeployTagsCmd(),
		newDeployTagsLastCmd(),
		newDeployLogCmd(),
		newDeployDiffCmd(),
		newDeployMigrateDiffCmd(),
		newBuildStatusCmd(),
		newDeployStatusCmd(),
	)

	return rootCmd
}

const (
	groupStories  = "stories"
	groupReleases = "releases"
	groupStatus   = "status"
)
