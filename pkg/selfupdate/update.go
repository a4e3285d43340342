// Package selfupdate upgrades normino and runs the upstream installer.
package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/pkg/runner"
)

// Updater reinstalls normino from its module path with the Go toolchain.
type Updater struct {
	// Cmd runs the toolchain. Defaults to runner.ExecRunner.
	Cmd runner.CommandRunner

	// GoBinary is the go executable. Defaults to "go".
	GoBinary string
}

// NewUpdater creates an Updater that executes real processes.
func NewUpdater() *Updater {
	return &Updater{Cmd: &runner.ExecRunner{}, GoBinary: "go"}
}

// Update runs "go install <module>@latest". Every line the toolchain prints
// on stdout is passed to onLine.
func (u *Updater) Update(ctx context.Context, module string, onLine func(string)) error {
	if strings.TrimSpace(module) == "" {
		return errors.New("update module is empty")
	}
	if onLine == nil {
		onLine = func(string) {}
	}

	goBinary := u.GoBinary
	if goBinary == "" {
		goBinary = "go"
	}

	target := module + "@latest"
	logging.FromContext(ctx).Debug("updating", logging.FieldModule, target)

	status, err := u.Cmd.Run(ctx, "", goBinary, []string{"install", target}, onLine)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s not found in PATH; install Go to update normino", goBinary)
		}
		return fmt.Errorf("go install: %w", err)
	}
	if status.Code != 0 {
		msg := status.Stderr
		if msg == "" {
			msg = fmt.Sprintf("exit status %d", status.Code)
		}
		return fmt.Errorf("go install %s: %s", target, msg)
	}

	return nil
}
