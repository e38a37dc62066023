package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitstory.dev/gitstory/internal/cli"
	"gitstory.dev/gitstory/internal/tui/style"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Writes to a closed pipe return EPIPE instead of killing the process
	signal.Ignore(syscall.SIGPIPE)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		// a second signal gets the default behavior
		signal.Stop(sigs)
		cancel()
	}()

	rootCmd := cli.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil || errors.Is(err, syscall.EPIPE) {
		return
	}
	cancel()
	fmt.Fprintln(os.Stderr, style.ColorRed(err.Error()))
	os.Exit(1)
}
