package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/internal/ui/pretty"
)

// Exit codes for normino.
const (
	// ExitSuccess indicates successful execution with no norm errors.
	ExitSuccess = 0

	// ExitFailure indicates norm errors, an aborted push or a failed command.
	ExitFailure = 1

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65
)

var (
	// ErrNormErrorsFound signals that at least one file failed the norm.
	// It only drives the exit code and is never printed.
	ErrNormErrorsFound = errors.New("norm errors found")

	// ErrAborted is returned when the user declines a push confirmation.
	ErrAborted = errors.New("push aborted")

	// ErrNotGitRepo is returned by push outside a git work tree.
	ErrNotGitRepo = errors.New("current directory is not a git repository")

	// ErrConfig wraps configuration loading and validation failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmptyMessage is returned when push gets no commit message.
	ErrEmptyMessage = errors.New("commit message cannot be empty")
)

// ExitCode maps the error returned by Execute to a process exit status and
// tells the user what went wrong. Cancellation by Ctrl-C is not a failure.
func ExitCode(root *cobra.Command, err error) int {
	switch {
	case err == nil:
		return ExitSuccess

	case errors.Is(err, context.Canceled):
		color, _ := root.PersistentFlags().GetString("color")
		styles := pretty.NewStyles(pretty.IsColorEnabled(color, root.OutOrStdout()))
		fmt.Fprintln(root.OutOrStdout(), styles.Cancelled.Render("Operation cancelled by user."))
		return ExitSuccess

	case errors.Is(err, ErrNormErrorsFound), errors.Is(err, ErrAborted):
		return ExitFailure

	case errors.Is(err, ErrConfig):
		logging.Default().Error("configuration failed", logging.FieldError, err)
		return ExitConfigError

	default:
		logging.Default().Error("command failed", logging.FieldError, err)
		return ExitFailure
	}
}
