// Package diag folds norminette's line-oriented text output into structured
// per-file reports and a run summary.
package diag

import (
	"fmt"
	"strings"
)

// Status is the pass/fail state of a single file.
type Status string

const (
	StatusOK    Status = "OK"
	StatusError Status = "ERROR"
)

// Diagnostic is one reported norm violation.
// Line and Column are nil when the linter gave no position.
type Diagnostic struct {
	FilePath string
	Rule     string
	Line     *int
	Column   *int
	Message  string
}

// HasPosition reports whether both line and column are known.
func (d Diagnostic) HasPosition() bool {
	return d.Line != nil && d.Column != nil
}

// Malformed reports whether the detail line could not be split into a rule
// and a message. Such diagnostics carry the raw line as their message.
func (d Diagnostic) Malformed() bool {
	return d.Rule == ""
}

// LineNumber returns the line, or 0 when unknown.
func (d Diagnostic) LineNumber() int {
	if d.Line == nil {
		return 0
	}
	return *d.Line
}

// ColumnNumber returns the column, or 0 when unknown.
func (d Diagnostic) ColumnNumber() int {
	if d.Column == nil {
		return 0
	}
	return *d.Column
}

// String renders the diagnostic in a compact, uncolored form.
func (d Diagnostic) String() string {
	var builder strings.Builder
	builder.WriteString(d.FilePath)
	if d.HasPosition() {
		fmt.Fprintf(&builder, ":%d:%d", *d.Line, *d.Column)
	}
	builder.WriteString(": ")
	if d.Rule != "" {
		builder.WriteString(d.Rule)
		builder.WriteString(": ")
	}
	builder.WriteString(d.Message)
	return builder.String()
}

// FileReport aggregates everything the linter said about one file.
type FileReport struct {
	FilePath string

	// Diagnostics are the errors reported under the file's Error! marker,
	// in input order.
	Diagnostics []Diagnostic

	// Notices are informational lines (e.g. global variable notices).
	// They never affect Status.
	Notices []Diagnostic
}

// Status is StatusError exactly when the report has diagnostics.
func (r FileReport) Status() Status {
	if len(r.Diagnostics) > 0 {
		return StatusError
	}
	return StatusOK
}

// HasNotices reports whether the linter attached notices to the file.
func (r FileReport) HasNotices() bool {
	return len(r.Notices) > 0
}

func (r FileReport) clone() FileReport {
	out := FileReport{FilePath: r.FilePath}
	if len(r.Diagnostics) > 0 {
		out.Diagnostics = append([]Diagnostic(nil), r.Diagnostics...)
	}
	if len(r.Notices) > 0 {
		out.Notices = append([]Diagnostic(nil), r.Notices...)
	}
	return out
}
