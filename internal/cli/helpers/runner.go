package helpers

import (
	"errors"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"gitstory.dev/gitstory/internal/runtime"
	"gitstory.dev/gitstory/internal/tui"
)

// Persistent flag names shared by every command
const (
	FlagDebug   = "debug"
	FlagConfig  = "config"
	FlagNoColor = "no-color"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	debug, _ := cmd.Flags().GetBool(FlagDebug)
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	noColor, _ := cmd.Flags().GetBool(FlagNoColor)

	tui.ConfigureColor(noColor)

	splog, err := tui.NewSplogWithConfig(cmd.OutOrStdout(), tui.GetLogFilePath())
	if err != nil {
		// Logging to a file is best effort
		splog, _ = tui.NewSplogWithConfig(cmd.OutOrStdout(), "")
	}
	defer func() { _ = splog.Close() }()
	if debug {
		splog.SetDebug(true)
	}
	splog.Logger().Debug("running command", "command", cmd.CommandPath(), "args", os.Args[1:])

	ctx, err := runtime.GetContext(cmd.Context(), splog, runtime.Options{
		ConfigPath: configPath,
		Debug:      debug,
	})
	if err != nil {
		return err
	}

	if err := fn(ctx); err != nil {
		return err
	}
	if err := splog.WriteErr(); errors.Is(err, syscall.EPIPE) {
		return err
	}
	return nil
}
