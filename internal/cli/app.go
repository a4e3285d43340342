package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/configloader"
	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/internal/ui/pretty"
	"github.com/normino/normino/pkg/config"
	"github.com/normino/normino/pkg/gitops"
	"github.com/normino/normino/pkg/runner"
	"github.com/normino/normino/pkg/selfupdate"
)

// app carries the collaborators commands talk to. Tests swap them for fakes.
type app struct {
	info BuildInfo

	stdin io.Reader

	// linter runs norminette; toolchain runs "go install".
	linter    runner.CommandRunner
	toolchain runner.CommandRunner
	git       gitops.Client
	http      *http.Client

	// shell interprets the installer script.
	shell string

	getwd     func() (string, error)
	lookupEnv func(string) (string, bool)

	// prompter overrides terminal detection when set.
	prompter Prompter

	// isolated skips system and user configuration files.
	isolated bool
}

func newApp(info BuildInfo) *app {
	return &app{
		info:      info,
		stdin:     os.Stdin,
		linter:    &runner.ExecRunner{},
		toolchain: &runner.ExecRunner{},
		git:       gitops.NewLocalClient(),
		http:      &http.Client{Timeout: selfupdate.DefaultHTTPTimeout},
		shell:     "bash",
		getwd:     os.Getwd,
		lookupEnv: os.LookupEnv,
	}
}

// loadConfig resolves configuration for workDir with cli as the highest
// precedence layer. The --config and --color persistent flags are folded in.
func (a *app) loadConfig(cmd *cobra.Command, cli *config.Config, workDir string) (*config.Config, error) {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	if cli == nil {
		cli = &config.Config{}
	}
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		cli.Color = config.ColorMode(flag.Value.String())
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:         workDir,
		ExplicitPath:       configPath,
		IgnoreSystemConfig: a.isolated,
		IgnoreUserConfig:   a.isolated,
		LookupEnv:          a.lookupEnv,
		CLIConfig:          cli,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	return result.Config, nil
}

// workingDir returns the process working directory.
func (a *app) workingDir() (string, error) {
	dir, err := a.getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// styles picks output styles for the command's stdout.
func (a *app) styles(cmd *cobra.Command, cfg *config.Config) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), cmd.OutOrStdout()))
}

func runnerOptions(cfg *config.Config, workDir string, paths []string) runner.Options {
	return runner.Options{
		Paths:          paths,
		WorkingDir:     workDir,
		ExcludeGlobs:   cfg.Exclude,
		FollowSymlinks: cfg.FollowSymlinks,
		Linter:         cfg.Norminette,
		LinterArgs:     cfg.NorminetteArgs,
		Jobs:           cfg.Jobs,
		BatchSize:      cfg.BatchSize,
		Timeout:        cfg.Timeout,
	}
}

// check runs norminette over paths. Cancellation surfaces as
// context.Canceled so main can report it.
func (a *app) check(ctx context.Context, cfg *config.Config, workDir string, paths []string) (*runner.Result, error) {
	logger := logging.FromContext(ctx)

	opts := runnerOptions(cfg, workDir, paths)
	logger.Debug("starting norm check",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := runner.New(a.linter).Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("norm check: %w", err)
	}

	logger.Debug("norm check finished",
		logging.FieldFilesDiscovered, result.FilesDiscovered,
		logging.FieldFilesWithErrors, result.Summary.ErrorCount(),
		logging.FieldFilesFailed, len(result.Failures),
		logging.FieldDuration, result.Duration,
	)

	for _, path := range result.Summary.Unconfirmed() {
		logger.Warn("norminette reported an error without details", logging.FieldPath, path)
	}

	return result, nil
}
