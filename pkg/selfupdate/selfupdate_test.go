package selfupdate

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normino/normino/pkg/runner"
)

type fakeCmd struct {
	name   string
	args   []string
	lines  []string
	status runner.ExitStatus
	err    error
}

func (f *fakeCmd) Run(_ context.Context, _, name string, args []string, onLine func(string)) (runner.ExitStatus, error) {
	f.name = name
	f.args = args
	for _, line := range f.lines {
		onLine(line)
	}
	return f.status, f.err
}

func TestUpdater_Update(t *testing.T) {
	t.Parallel()

	cmd := &fakeCmd{lines: []string{"go: downloading github.com/normino/normino v1.2.0"}}
	updater := &Updater{Cmd: cmd}

	var got []string
	err := updater.Update(context.Background(), "github.com/normino/normino/cmd/normino", func(line string) {
		got = append(got, line)
	})
	require.NoError(t, err)

	assert.Equal(t, "go", cmd.name)
	assert.Equal(t, []string{"install", "github.com/normino/normino/cmd/normino@latest"}, cmd.args)
	assert.Equal(t, cmd.lines, got)
}

func TestUpdater_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  *fakeCmd
		want string
	}{
		{
			name: "non-zero exit",
			cmd:  &fakeCmd{status: runner.ExitStatus{Code: 1, Stderr: "module not found"}},
			want: "module not found",
		},
		{
			name: "silent exit",
			cmd:  &fakeCmd{status: runner.ExitStatus{Code: 2}},
			want: "exit status 2",
		},
		{
			name: "go missing",
			cmd:  &fakeCmd{err: fmt.Errorf("start: %w", exec.ErrNotFound)},
			want: "not found in PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := (&Updater{Cmd: tt.cmd}).Update(context.Background(), "example.com/x", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUpdater_EmptyModule(t *testing.T) {
	t.Parallel()

	err := NewUpdater().Update(context.Background(), " ", nil)
	require.Error(t, err)
}

func TestInstaller_Run(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("read name\necho \"installed for $name\"\n"))
	}))
	t.Cleanup(server.Close)

	var stdout bytes.Buffer
	installer := &Installer{
		URL:    server.URL,
		HTTP:   server.Client(),
		Shell:  "sh",
		Stdin:  bytes.NewBufferString("student\n"),
		Stdout: &stdout,
	}

	require.NoError(t, installer.Run(context.Background()))
	assert.Equal(t, "installed for student\n", stdout.String())
}

func TestInstaller_DownloadError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	err := (&Installer{URL: server.URL, HTTP: server.Client()}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download installer")
}

func TestInstaller_ScriptFails(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("exit 3\n"))
	}))
	t.Cleanup(server.Close)

	err := (&Installer{URL: server.URL, HTTP: server.Client(), Shell: "sh"}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute installer")
}
