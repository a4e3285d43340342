package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/normino/normino/pkg/selfupdate"
)

func newUpdateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update normino to the latest release",
		Long: `Reinstall normino with 'go install <module>@latest'. The module path can be
changed with update_module in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpdate(cmd)
		},
	}
}

func (a *app) runUpdate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	workDir, err := a.workingDir()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd, nil, workDir)
	if err != nil {
		return err
	}
	styles := a.styles(cmd, cfg)

	updater := &selfupdate.Updater{Cmd: a.toolchain}
	err = updater.Update(cmd.Context(), cfg.UpdateModule, func(line string) {
		fmt.Fprintln(out, line)
	})
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintln(out, styles.Success.Render("Update successful."))
	return nil
}
