package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/internal/ui/pretty"
	"github.com/normino/normino/pkg/gitops"
	"github.com/normino/normino/pkg/runner"
)

func newPushCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "push [message]",
		Short: "Check the norm, then commit and push",
		Long: `Check the whole repository against the norm and look for files that
should not be pushed (object files, swap files, binaries, hidden files).
Either finding asks for confirmation. Then every change is committed with
the given message and the current branch is pushed to origin.

Examples:
  normino push "ex02 done"        # Commit and push with a message
  normino push                    # Ask for the commit message
  normino push -y "wip"           # Push without confirmation prompts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPush(cmd, args, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "push without asking for confirmation")

	return cmd
}

func (a *app) runPush(cmd *cobra.Command, args []string, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	workDir, err := a.workingDir()
	if err != nil {
		return err
	}

	repo, err := gitops.Open(ctx, a.git, workDir)
	if errors.Is(err, gitops.ErrNotRepository) {
		return ErrNotGitRepo
	}
	if err != nil {
		return err
	}
	root := repo.Root()
	ctx = logging.With(ctx, logging.FieldDir, root)
	logging.FromContext(ctx).Debug("found repository")

	cfg, err := a.loadConfig(cmd, nil, root)
	if err != nil {
		return err
	}

	styles := a.styles(cmd, cfg)
	prompter := a.prompter
	if prompter == nil {
		prompter = newPrompter(a.stdin, out, styles)
	}
	if yes {
		prompter = assumeYes{prompter}
	}

	message := ""
	if len(args) > 0 {
		message = args[0]
	} else if message, err = prompter.Input("Enter commit message"); err != nil {
		return err
	}
	if message == "" {
		return ErrEmptyMessage
	}

	fmt.Fprintln(cmd.ErrOrStderr(), styles.Progress.Render("Processing..."))

	result, err := a.check(ctx, cfg, root, nil)
	if err != nil {
		return err
	}

	if stats := result.ErrorsByDir(); len(stats) > 0 {
		fmt.Fprintln(out, styles.Failed.Render("Norm errors found in the following directories:"))
		for _, dir := range runner.SortedDirs(stats) {
			line := fmt.Sprintf(" - %s: %d error(s)", displayDir(root, dir), stats[dir])
			fmt.Fprintln(out, styles.Warn.Render(line))
		}

		if err := confirmPush(prompter, out, styles,
			"There are norm errors! Are you sure you want to push?",
			"Proceeding with push despite norm errors."); err != nil {
			return err
		}
	}

	unwanted, err := gitops.FindUnwanted(ctx, root)
	if err != nil {
		return fmt.Errorf("scan for unwanted files: %w", err)
	}
	if len(unwanted) > 0 {
		fmt.Fprintln(out, styles.Failed.Render("Potential unwanted files detected:"))
		for _, file := range unwanted {
			fmt.Fprintln(out, styles.Warn.Render(fmt.Sprintf(" - %s (%s)", file.Path, file.Reason)))
		}

		if err := confirmPush(prompter, out, styles,
			"Unwanted files detected! Are you sure you want to push?",
			"Proceeding with push despite unwanted files."); err != nil {
			return err
		}
	}

	return commitAndPush(ctx, out, repo, message, styles)
}

// commitAndPush reports each git step as it completes.
func commitAndPush(ctx context.Context, out io.Writer, repo *gitops.Repo, message string, styles *pretty.Styles) error {
	changed, err := repo.HasChanges(ctx)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(out, styles.Success.Render("Nothing to commit, working tree clean."))
		return nil
	}

	if err := repo.AddAll(ctx); err != nil {
		return err
	}
	if err := repo.Commit(ctx, message); err != nil {
		return err
	}
	fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("Committed changes with message: '%s'", message)))

	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	if err := repo.Push(ctx, branch); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("pushed", logging.FieldBranch, branch)
	fmt.Fprintln(out, styles.Success.Render("Push successful."))

	return nil
}

func confirmPush(prompter Prompter, out io.Writer, styles *pretty.Styles, question, proceed string) error {
	ok, err := prompter.Confirm(question)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, styles.Failed.Render("Push aborted!"))
		return ErrAborted
	}

	fmt.Fprintln(out, styles.Info.Render(proceed))
	return nil
}

// displayDir shows dir relative to the repository root.
func displayDir(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || !filepath.IsLocal(rel) {
		return dir
	}
	return rel
}
