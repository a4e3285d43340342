package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/pkg/config"
	"github.com/normino/normino/pkg/tester"
)

func newTestCommand(a *app) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "test [name...]",
		Short: "Download a tester, or list the available ones",
		Long: `Download the tester published for a project into the current directory.
Without a name, list every project that has a tester. Names are matched
ignoring case, spaces, dashes and underscores; a close miss prints a
suggestion instead of downloading.

Downloaded entries are recorded in downloaded.tests so 'normino clean' can
remove them again.

Examples:
  normino test                    # List available testers
  normino test libft              # Download the libft tester
  normino test get next line      # Same as get_next_line`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTest(cmd, strings.Join(args, " "), server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "base URL testers are downloaded from")

	return cmd
}

func (a *app) runTest(cmd *cobra.Command, name, server string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	workDir, err := a.workingDir()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd, &config.Config{Server: server}, workDir)
	if err != nil {
		return err
	}
	styles := a.styles(cmd, cfg)

	client := tester.NewClient(cfg.Server, a.http)

	available, err := client.Available(ctx)
	if err != nil {
		return fmt.Errorf("fetch available testers: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		fmt.Fprintln(out, styles.Success.Render("Projects with Tests Available:"))
		fmt.Fprintln(out)
		for _, project := range available {
			fmt.Fprintln(out, styles.FilePath.Render(" - "+project))
		}
		return nil
	}

	match, err := tester.Resolve(name, available)
	if errors.Is(err, tester.ErrNoMatch) {
		fmt.Fprintln(out, styles.Failed.Render("No match found for: "+name))
		return nil
	}
	if err != nil {
		return err
	}
	if !match.Exact {
		fmt.Fprintln(out, styles.Warn.Render(fmt.Sprintf("Did you mean: %s?", match.Name)))
		return nil
	}

	fmt.Fprintln(out, styles.Success.Render("Downloading test for: "+match.Name))

	ctx = logging.With(ctx, logging.FieldTester, match.Name)
	download, err := client.Download(ctx, match.Name, workDir)
	if err != nil {
		return fmt.Errorf("download test for %s: %w", match.Name, err)
	}
	logging.FromContext(ctx).Debug("tester downloaded",
		logging.FieldDest, download.Dir,
		logging.FieldFiles, download.Entries,
	)

	fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("Test downloaded for %s!", match.Name)))

	return nil
}
