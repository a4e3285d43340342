// Package cli provides the Cobra command structure for normino.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root normino command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(newApp(info))
}

func newRootCommand(a *app) *cobra.Command {
	var debug bool
	var configPath string
	var color string
	flags := &checkFlags{}

	rootCmd := &cobra.Command{
		Use:   "normino [paths...]",
		Short: "Run norminette but better",
		Long: `normino runs norminette over your C sources and prints a report you can
actually read: passing files on one line, errors grouped per file and laid
out in columns, and a summary at the end.

It also helps with the rest of a 42 workflow: pushing only after a norm
check, fetching project testers and cleaning them up again.`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd, args, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Running normino without a subcommand checks the given paths.
	addCheckFlags(rootCmd, flags)

	rootCmd.AddCommand(newLintCommand(a))
	rootCmd.AddCommand(newPushCommand(a))
	rootCmd.AddCommand(newTestCommand(a))
	rootCmd.AddCommand(newCleanCommand(a))
	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newUpdateCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newVersionCommand(a.info))

	groupCommands(rootCmd)
	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
