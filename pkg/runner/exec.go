package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrLinterNotFound is returned when the norminette binary cannot be started.
var ErrLinterNotFound = errors.New("norminette not found; install it with 'pip install norminette' or set 'norminette' in .normino.yml")

// maxStderrLen caps how much stderr is kept for failure messages.
const maxStderrLen = 4000

// ExitStatus describes how a linter process ended.
type ExitStatus struct {
	// Code is the process exit code, or -1 when it did not exit normally.
	Code int

	// Stderr is the tail of the process's standard error.
	Stderr string
}

// CommandRunner runs an external command and streams its stdout line by line.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args []string, onLine func(string)) (ExitStatus, error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct{}

var _ CommandRunner = (*ExecRunner)(nil)

// Run starts the command, feeds every stdout line to onLine and waits for it
// to exit. A non-zero exit code is not an error; norminette exits 1 whenever
// it reports norm errors.
func (e *ExecRunner) Run(ctx context.Context, dir, name string, args []string, onLine func(string)) (ExitStatus, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExitStatus{Code: -1}, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ExitStatus{Code: -1}, fmt.Errorf("%w: %w", ErrLinterNotFound, err)
		}
		return ExitStatus{Code: -1}, fmt.Errorf("start %s: %w", name, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	status := ExitStatus{Code: 0, Stderr: tail(stderr.String(), maxStderrLen)}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			status.Code = -1
			return status, fmt.Errorf("wait %s: %w", name, waitErr)
		}
		status.Code = exitErr.ExitCode()
	}

	if ctx.Err() != nil {
		return status, fmt.Errorf("run %s: %w", name, ctx.Err())
	}
	if scanErr != nil {
		return status, fmt.Errorf("read %s output: %w", name, scanErr)
	}

	return status, nil
}

// tail keeps the last n bytes of s; error summaries are usually at the end.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n:]
}
