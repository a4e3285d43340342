package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/normino/normino/pkg/config"
	"github.com/normino/normino/pkg/selfupdate"
)

func newRunCommand(a *app) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download and run the installation script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInstaller(cmd, server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "URL the installation script is downloaded from")

	return cmd
}

func (a *app) runInstaller(cmd *cobra.Command, server string) error {
	workDir, err := a.workingDir()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd, &config.Config{Server: server}, workDir)
	if err != nil {
		return err
	}

	installer := &selfupdate.Installer{
		URL:    cfg.Server,
		HTTP:   a.http,
		Shell:  a.shell,
		Stdin:  a.stdin,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}

	if err := installer.Run(cmd.Context()); err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("installation script: %w", err)
	}
	return nil
}
