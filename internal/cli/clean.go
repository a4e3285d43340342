package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/normino/normino/pkg/tester"
)

func newCleanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete downloaded testers and their record file",
		Long: `Delete every entry listed in downloaded.tests in the current directory,
then the record itself. Entries that were already removed are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runClean(cmd)
		},
	}
}

func (a *app) runClean(cmd *cobra.Command) error {
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

	result, err := tester.Clean(workDir)
	if errors.Is(err, tester.ErrNoRecord) {
		fmt.Fprintln(out, styles.Warn.Render("Nothing to clean: no "+tester.RecordFile+" in this directory."))
		return nil
	}
	if err != nil {
		return err
	}

	for _, path := range result.Deleted {
		fmt.Fprintln(out, styles.Success.Render("Deleted: "+path))
	}
	for _, path := range result.Missing {
		fmt.Fprintln(out, styles.Warn.Render("Path not found, skipping: "+path))
	}

	return nil
}
