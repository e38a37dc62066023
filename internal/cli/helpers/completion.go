// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/story"
	"gitstory.dev/gitstory/internal/tui"
)

// CompleteStories is a helper for cobra.ValidArgsFunction that returns the
// story branch names known locally. It does not fetch.
func CompleteStories(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	splog, _ := tui.NewSplogWithConfig(cmd.ErrOrStderr(), "")
	splog.SetQuiet(true)

	ctx, err := runtime.GetContext(cmd.Context(), splog, runtime.Options{ConfigPath: configPath})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := ctx.Registry.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return story.Names(branches), cobra.ShellCompDirectiveNoFileComp
}
