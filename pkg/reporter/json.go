package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/normino/normino/pkg/analysis"
	"github.com/normino/normino/pkg/diag"
	"github.com/normino/normino/pkg/runner"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version  string                  `json:"version"`
	Files    []JSONFileResult        `json:"files"`
	Failures []JSONFailure           `json:"failures"`
	Summary  analysis.Totals         `json:"summary"`
	ByRule   []analysis.RuleAnalysis `json:"byRule,omitempty"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Status      string           `json:"status"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Notices     []JSONDiagnostic `json:"notices,omitempty"`
}

// JSONDiagnostic represents a single norm error or notice.
type JSONDiagnostic struct {
	Rule    string `json:"rule,omitempty"`
	Line    *int   `json:"line,omitempty"`
	Column  *int   `json:"column,omitempty"`
	Message string `json:"message"`
}

// JSONFailure represents a file norminette could not check.
type JSONFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Diagnostics, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	report := analysis.Analyze(result, analysis.Options{
		IncludeByRule: true,
		SortBy:        analysis.SortByCount,
		SortDesc:      true,
	})

	output := &JSONOutput{
		Version:  analysis.ReportVersion,
		Files:    make([]JSONFileResult, 0),
		Failures: make([]JSONFailure, 0),
		Summary:  report.Totals,
		ByRule:   report.ByRule,
	}

	if result == nil || result.Summary == nil {
		return output
	}

	for _, file := range result.Summary.Reports() {
		if r.opts.ErrorOnly && file.Status() != diag.StatusError {
			continue
		}

		fileResult := JSONFileResult{
			Path:        file.FilePath,
			Status:      string(file.Status()),
			Diagnostics: toJSONDiagnostics(file.Diagnostics),
			Notices:     toJSONDiagnostics(file.Notices),
		}
		if len(file.Notices) == 0 {
			fileResult.Notices = nil
		}

		output.Files = append(output.Files, fileResult)
	}

	for _, failure := range result.Failures {
		output.Failures = append(output.Failures, JSONFailure{Path: failure.Path, Reason: failure.Reason})
	}

	return output
}

func toJSONDiagnostics(diagnostics []diag.Diagnostic) []JSONDiagnostic {
	out := make([]JSONDiagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, JSONDiagnostic{
			Rule:    d.Rule,
			Line:    d.Line,
			Column:  d.Column,
			Message: d.Message,
		})
	}
	return out
}
