package cli

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/actions"
	"gitstory.dev/gitstory/internal/cli/helpers"
	"gitstory.dev/gitstory/internal/runtime"
)

// watchFlagDefault marks a bare --watch; the configured interval applies
const watchFlagDefault = "configured"

const watchHelp = `With --watch the status is refreshed until interrupted. The interval is a
duration (30s, 2m) or a cron spec (@every 1m, */5 * * * *) and defaults to
the configured watch_interval.`

// addWatchFlag registers --watch[=INTERVAL] and returns a reader for it
func addWatchFlag(cmd *cobra.Command) func() actions.WatchOptions {
	var interval string
	cmd.Flags().StringVarP(&interval, "watch", "w", "", "Refresh periodically, optionally every `INTERVAL`")
	cmd.Flags().Lookup("watch").NoOptDefVal = watchFlagDefault

	return func() actions.WatchOptions {
		if !cmd.Flags().Changed("watch") {
			return actions.WatchOptions{}
		}
		opts := actions.WatchOptions{Watch: true}
		if interval != watchFlagDefault {
			opts.Interval = interval
		}
		return opts
	}
}

// newBuildStatusCmd creates the build-status command
func newBuildStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-status [story-id...]",
		Short: "Show the CI build status of stories",
		Long: `Show the CI build status of one or more stories, the checked out story by
default. Statuses are fetched concurrently and shown in story id order.

` + watchHelp,
		Aliases: []string{"bs"},
		GroupID: groupStatus,
	}
	watch := addWatchFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := actions.BuildStatusOptions{WatchOptions: watch(), StoryIDs: args}
		return helpers.Run(cmd, func(ctx *runtime.Context) error {
			return actions.BuildStatusAction(ctx, opts)
		})
	}
	return cmd
}

// newDeployStatusCmd creates the deploy-status command
func newDeployStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy-status [server]",
		Short: "Show the latest deploy to a server",
		Long: `Show the latest deploy to a server, the configured deploy_server by default.

` + watchHelp,
		Aliases: []string{"ds"},
		GroupID: groupStatus,
		Args:    cobra.MaximumNArgs(1),
	}
	watch := addWatchFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := actions.DeployStatusOptions{WatchOptions: watch()}
		if len(args) > 0 {
			opts.Server = args[0]
		}
		return helpers.Run(cmd, func(ctx *runtime.Context) error {
			return actions.DeployStatusAction(ctx, opts)
		})
	}
	return cmd
}
