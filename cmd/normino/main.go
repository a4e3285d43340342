// Package main is the entry point for the normino CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/normino/normino/internal/cli"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Ctrl-C cancels the context; running norminette processes and git
	// commands are killed with it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	return cli.ExitCode(rootCmd, rootCmd.ExecuteContext(ctx))
}
