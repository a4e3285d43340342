package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/normino/normino/pkg/config"
	"github.com/normino/normino/pkg/reporter"
	"github.com/normino/normino/pkg/runner"
)

type checkFlags struct {
	exclude     []string
	errorOnly   bool
	summaryOnly bool
	detailed    bool
	listFiles   bool
	format      string
	jobs        int
	timeout     time.Duration
}

// toConfig maps the flags onto a config layer. Zero values leave lower
// layers untouched.
func (f *checkFlags) toConfig() *config.Config {
	return &config.Config{
		Exclude:     f.exclude,
		ErrorOnly:   f.errorOnly,
		SummaryOnly: f.summaryOnly,
		Detailed:    f.detailed,
		ListFiles:   f.listFiles,
		Format:      config.OutputFormat(f.format),
		Jobs:        f.jobs,
		Timeout:     f.timeout,
	}
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringSliceVarP(&flags.exclude, "exclude", "x", nil,
		"glob patterns to exclude, e.g. --exclude '*.tmp' --exclude 'test/*'")
	cmd.Flags().BoolVarP(&flags.errorOnly, "error-only", "e", false, "display only errors")
	cmd.Flags().BoolVarP(&flags.summaryOnly, "summary-only", "s", false, "display only the summary")
	cmd.Flags().BoolVarP(&flags.detailed, "detailed", "d", false, "display detailed error messages")
	cmd.Flags().BoolVarP(&flags.listFiles, "list-files", "l", false, "list all found .c and .h files and exit")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, summary (default text)")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of concurrent norminette processes (0 = default)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "time budget per checked file, e.g. 5s")
	markCheckFlags(cmd.Flags(),
		"exclude", "error-only", "summary-only", "detailed", "list-files", "format", "jobs", "timeout")
}

func newLintCommand(a *app) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:     "lint [paths...]",
		Short:   "Check C sources against the norm",
		Long:    lintLongDescription,
		Example: lintExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd, args, flags)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const lintLongDescription = `Run norminette over .c and .h files and print a readable report.

Paths may be files, directories or shell patterns such as '*.c'. By default
the current directory is checked recursively. Hidden directories are skipped.`

const lintExamples = `  normino                         # Check the current directory
  normino ex00 ex01               # Check two exercises
  normino '*.c' -x 'tests/*'      # Check matching files, skipping tests
  normino -e                      # Only show files with errors
  normino -d                      # Show the message of every error
  normino --format json           # Machine readable output`

func (a *app) runLint(cmd *cobra.Command, args []string, flags *checkFlags) error {
	ctx := cmd.Context()

	workDir, err := a.workingDir()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd, flags.toConfig(), workDir)
	if err != nil {
		return err
	}

	if cfg.ListFiles {
		return a.listFiles(cmd, cfg, workDir, args)
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	styles := a.styles(cmd, cfg)
	if format == reporter.FormatText {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Progress.Render("Processing..."))
	}

	result, err := a.check(ctx, cfg, workDir, args)
	if err != nil {
		return err
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       string(cfg.Color),
		ErrorOnly:   cfg.ErrorOnly,
		SummaryOnly: cfg.SummaryOnly,
		Detailed:    cfg.Detailed,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.HasFailures() {
		return ErrNormErrorsFound
	}

	return nil
}

// listFiles prints every file a check would hand to norminette.
func (a *app) listFiles(cmd *cobra.Command, cfg *config.Config, workDir string, args []string) error {
	files, err := runner.Discover(cmd.Context(), runnerOptions(cfg, workDir, args))
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, path := range runner.DisplayPaths(workDir, files) {
		fmt.Fprintln(out, path)
	}

	return nil
}
