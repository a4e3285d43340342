// Package gitops wraps the git operations behind "normino push".
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitNotFound is returned when the git binary is not on PATH.
var ErrGitNotFound = errors.New("git not found in PATH")

// Client runs git commands. It exists so the push workflow can be tested
// without a git executable.
type Client interface {
	// Run executes git with args inside dir and returns its stdout.
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// CommandError describes a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

// Error implements error.
func (e *CommandError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

// LocalClient implements Client by executing the local git binary.
type LocalClient struct {
	// Binary is the git executable. Defaults to "git".
	Binary string
}

var _ Client = (*LocalClient)(nil)

// NewLocalClient creates a client for the git binary on PATH.
func NewLocalClient() *LocalClient {
	return &LocalClient{Binary: "git"}
}

// Run implements Client.
func (c *LocalClient) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "git"
	}

	fullArgs := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, binary, fullArgs...)
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr):
		return nil, &CommandError{
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(string(exitErr.Stderr)),
		}
	case errors.Is(err, exec.ErrNotFound):
		return nil, ErrGitNotFound
	default:
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
}
