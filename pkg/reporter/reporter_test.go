package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normino/normino/pkg/diag"
	"github.com/normino/normino/pkg/reporter"
	"github.com/normino/normino/pkg/runner"
)

const sampleOutput = `main.c: OK!
ft_putstr.c: Error!
Error: SPACE_BEFORE_FUNC    (line:   3, col:  10):	space before function name
Error: INVALID_HEADER       (line:   1, col:   1):	Missing or invalid 42 header
globals.c: OK!
Notice: GLOBAL_VAR_DETECTED  (line:   5, col:   1):	Global variable present in file. Make sure it is a reasonable choice.
broken.c: Error!
Error: Unexpected EOF
`

func resultFrom(t *testing.T, output string, failures ...runner.Failure) *runner.Result {
	t.Helper()

	summary, err := diag.AggregateReader(strings.NewReader(output))
	require.NoError(t, err)

	return &runner.Result{
		Summary:  summary,
		Failures: failures,
		Duration: 2500 * time.Millisecond,
	}
}

func render(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	if opts.Color == "" {
		opts.Color = "never"
	}
	if opts.Width == 0 {
		opts.Width = 80
	}

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	return buf.String(), count
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "Summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	assert.True(t, reporter.FormatText.IsValid())
	assert.True(t, reporter.FormatJSON.IsValid())
	assert.True(t, reporter.FormatSummary.IsValid())
	assert.False(t, reporter.Format("diff").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.NotNil(t, opts.Writer)
}

func TestTextReporter_NilResult(t *testing.T) {
	out, count := render(t, reporter.Options{}, nil)
	assert.Equal(t, 0, count)
	assert.Equal(t, "No files to check.\n", out)
}

func TestTextReporter_AllPass(t *testing.T) {
	out, count := render(t, reporter.Options{}, resultFrom(t, "b.c: OK!\na.c: OK!\n"))

	assert.Equal(t, 0, count)
	assert.Equal(t,
		"══════════════[ PASS ]══════════════════\n"+
			"a.c, b.c\n"+
			"Execution time: 2.50 seconds\n",
		out)
}

func TestTextReporter_Sections(t *testing.T) {
	result := resultFrom(t, sampleOutput, runner.Failure{Path: "slow.c", Reason: "checking timed out after 5s"})

	out, count := render(t, reporter.Options{}, result)

	assert.Equal(t, 3, count)

	for _, want := range []string{
		"══════════════[ PASS ]══════════════════\nmain.c\n\n",
		"══════════════[ WARN ]══════════════════\nglobals.c:\n   Make sure your global is const or static!\n",
		"══════════════[ FAIL ]══════════════════\nLine  Col Error Description\n",
		"broken.c\nError: Unexpected EOF\n",
		"ft_putstr.c\n   3   10 SPACE_BEFORE_FUNC     1    1 INVALID_HEADER\n",
		"══════════════[ FAILED ]════════════════\nslow.c: checking timed out after 5s\n",
		"Correct files: 1\nFiles with errors: 2\nFiles that crashed norminette: 1\nExecution time: 2.50 seconds\n",
	} {
		assert.Contains(t, out, want)
	}

	// Files in the FAIL section are sorted by path.
	assert.Less(t, strings.Index(out, "broken.c"), strings.Index(out, "ft_putstr.c"))
	// The notice file is not listed as passing.
	assert.NotContains(t, out, "main.c, globals.c")
}

func TestTextReporter_Detailed(t *testing.T) {
	out, _ := render(t, reporter.Options{Detailed: true}, resultFrom(t, sampleOutput))

	assert.Contains(t, out, "ft_putstr.c\n"+
		"   3   10 SPACE_BEFORE_FUNC space before function name\n"+
		"   1    1 INVALID_HEADER Missing or invalid 42 header\n")
}

func TestTextReporter_ErrorOnly(t *testing.T) {
	out, _ := render(t, reporter.Options{ErrorOnly: true}, resultFrom(t, sampleOutput))

	assert.NotContains(t, out, "[ PASS ]")
	assert.Contains(t, out, "[ FAIL ]")
}

func TestTextReporter_SummaryOnly(t *testing.T) {
	out, _ := render(t, reporter.Options{SummaryOnly: true}, resultFrom(t, "a.c: OK!\n"))

	assert.Equal(t,
		strings.Repeat("═", 40)+"\n"+
			"Correct files: 1\n"+
			"Files with errors: 0\n"+
			"Execution time: 2.50 seconds\n",
		out)
}

func TestTextReporter_ColumnsFollowWidth(t *testing.T) {
	out, _ := render(t, reporter.Options{Width: 20}, resultFrom(t, sampleOutput))

	assert.Contains(t, out, "ft_putstr.c\n   3   10 SPACE_BEFORE_FUNC\n   1    1 INVALID_HEADER\n")
}

func TestJSONReporter_NilResult(t *testing.T) {
	out, count := render(t, reporter.Options{Format: reporter.FormatJSON}, nil)
	assert.Equal(t, 0, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))
	assert.Empty(t, output.Files)
	assert.NotNil(t, output.Files)
	assert.Empty(t, output.Failures)
}

func TestJSONReporter_WithDiagnostics(t *testing.T) {
	result := resultFrom(t, sampleOutput, runner.Failure{Path: "slow.c", Reason: "timeout"})

	out, count := render(t, reporter.Options{Format: reporter.FormatJSON}, result)
	assert.Equal(t, 3, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	require.Len(t, output.Files, 4)
	assert.Equal(t, "ft_putstr.c", output.Files[1].Path)
	assert.Equal(t, "ERROR", output.Files[1].Status)
	require.Len(t, output.Files[1].Diagnostics, 2)
	assert.Equal(t, "SPACE_BEFORE_FUNC", output.Files[1].Diagnostics[0].Rule)
	require.NotNil(t, output.Files[1].Diagnostics[0].Line)
	assert.Equal(t, 3, *output.Files[1].Diagnostics[0].Line)

	assert.Equal(t, "globals.c", output.Files[2].Path)
	assert.Len(t, output.Files[2].Notices, 1)

	assert.Equal(t, []reporter.JSONFailure{{Path: "slow.c", Reason: "timeout"}}, output.Failures)
	assert.Equal(t, 4, output.Summary.Files)
	assert.Equal(t, 1, output.Summary.Failed)
	assert.Equal(t, int64(2500), output.Summary.DurationMS)
	assert.NotEmpty(t, output.ByRule)
}

func TestJSONReporter_ErrorOnly(t *testing.T) {
	out, _ := render(t, reporter.Options{Format: reporter.FormatJSON, ErrorOnly: true}, resultFrom(t, sampleOutput))

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &output))

	for _, file := range output.Files {
		assert.Equal(t, "ERROR", file.Status, file.Path)
	}
	assert.Len(t, output.Files, 2)
}

func TestJSONReporter_Compact(t *testing.T) {
	out, _ := render(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, resultFrom(t, "a.c: OK!\n"))

	assert.Equal(t, 1, strings.Count(out, "\n"), "compact output is a single line")
}

func TestSummaryReporter_ReturnsErrorCount(t *testing.T) {
	out, count := render(t, reporter.Options{Format: reporter.FormatSummary}, resultFrom(t, sampleOutput))

	assert.Equal(t, 3, count)
	assert.Contains(t, out, "Rules Summary")
	assert.Contains(t, out, "Files Summary")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextReporter_WriteError(t *testing.T) {
	rep, err := reporter.New(reporter.Options{Writer: failingWriter{}, Color: "never", Width: 80})
	require.NoError(t, err)

	_, err = rep.Report(context.Background(), resultFrom(t, "a.c: OK!\n"))
	require.Error(t, err)
}
