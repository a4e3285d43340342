package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/configloader"
	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/pkg/config"
	"github.com/normino/normino/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand(a *app) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new normino configuration file",
		Long: `Create a new .normino.yml configuration file in the current directory.
The minimal template lists every setting commented out; --full writes
every setting with its default value.

Examples:
  normino init                       Create minimal .normino.yml
  normino init --full                Write all settings with their defaults
  normino init --output ci.yml       Write to a custom file path
  normino init --force               Overwrite, keeping a .bak copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .normino.yml)")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.NewInteractive()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigName
	}

	absPath := outputPath
	if !filepath.IsAbs(absPath) {
		workDir, err := a.workingDir()
		if err != nil {
			return err
		}
		absPath = filepath.Join(workDir, outputPath)
	}

	_, err := os.Stat(absPath)
	switch {
	case err == nil && !flags.force:
		return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
	case err == nil:
		backupPath, err := fsutil.Backup(ctx, absPath)
		if err != nil {
			return err
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath, "backup", backupPath)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", outputPath, err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, configFilePermissions)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")

	return nil
}
