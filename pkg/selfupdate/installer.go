package selfupdate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/normino/normino/internal/logging"
)

// DefaultHTTPTimeout bounds the installer download.
const DefaultHTTPTimeout = 10 * time.Second

// Installer downloads the installer script from the server and executes it.
type Installer struct {
	// URL serves the script.
	URL string

	// HTTP fetches the script. Defaults to a client with DefaultHTTPTimeout.
	HTTP *http.Client

	// Shell interprets the script. Defaults to "bash".
	Shell string

	// Stdin, Stdout and Stderr are attached to the script.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run fetches the script into a temporary file, runs it and removes it.
func (i *Installer) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	script, err := i.fetch(ctx)
	if err != nil {
		return fmt.Errorf("download installer: %w", err)
	}

	f, err := os.CreateTemp("", "normino-install-*.sh")
	if err != nil {
		return err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(script); err != nil {
		f.Close()
		return fmt.Errorf("write installer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write installer: %w", err)
	}

	shell := i.Shell
	if shell == "" {
		shell = "bash"
	}

	logger.Debug("running installer", logging.FieldURL, i.URL, logging.FieldCommand, shell)

	cmd := exec.CommandContext(ctx, shell, path)
	cmd.Stdin = i.Stdin
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("execute installer: %w", err)
	}

	return nil
}

func (i *Installer) fetch(ctx context.Context) ([]byte, error) {
	client := i.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", i.URL, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
