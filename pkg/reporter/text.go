package reporter

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/normino/normino/internal/ui/pretty"
	"github.com/normino/normino/pkg/analysis"
	"github.com/normino/normino/pkg/diag"
	"github.com/normino/normino/pkg/runner"
)

// Section titles of the text report.
const (
	sectionPass   = "PASS"
	sectionWarn   = "WARN"
	sectionFail   = "FAIL"
	sectionFailed = "FAILED"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	width  int
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)

	width := opts.Width
	if width <= 0 {
		width = pretty.TerminalWidth(opts.Writer)
	}

	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		width:  width,
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// textSections splits a result into what each section prints.
type textSections struct {
	passed   []string
	noticed  []string
	errored  []diag.FileReport
	failures []runner.Failure
}

func splitSections(result *runner.Result) textSections {
	var sections textSections

	for _, report := range result.Summary.Reports() {
		switch {
		case report.Status() == diag.StatusError:
			sections.errored = append(sections.errored, report)
		case report.HasNotices():
			sections.noticed = append(sections.noticed, report.FilePath)
		default:
			sections.passed = append(sections.passed, report.FilePath)
		}
	}

	slices.Sort(sections.passed)
	slices.Sort(sections.noticed)
	slices.SortFunc(sections.errored, func(a, b diag.FileReport) int {
		return cmp.Compare(a.FilePath, b.FilePath)
	})

	sections.failures = slices.Clone(result.Failures)
	slices.SortFunc(sections.failures, func(a, b runner.Failure) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return sections
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || result.Summary == nil || (result.Summary.TotalFiles() == 0 && len(result.Failures) == 0) {
		fmt.Fprintln(r.bw, r.styles.Progress.Render("No files to check."))
		return 0, nil
	}

	totals := analysis.Analyze(result, analysis.Options{}).Totals
	sections := splitSections(result)

	if !r.opts.SummaryOnly {
		r.writePass(sections)
		r.writeWarn(sections.noticed)
		r.writeFail(sections.errored)
		r.writeFailed(sections.failures)
	}

	if r.opts.SummaryOnly || len(sections.errored) > 0 || len(sections.failures) > 0 {
		fmt.Fprint(r.bw, r.styles.FormatFooter(totals))
	} else {
		fmt.Fprintln(r.bw, r.styles.FormatElapsed(totals))
	}

	return totals.Diagnostics, nil
}

func (r *TextReporter) writePass(sections textSections) {
	if len(sections.passed) == 0 || r.opts.ErrorOnly {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Pass.Render(pretty.Banner(sectionPass)))
	fmt.Fprintln(r.bw, r.styles.Pass.Render(pretty.Wrap(strings.Join(sections.passed, ", "), r.width)))

	if len(sections.errored) > 0 {
		fmt.Fprintln(r.bw)
	}
}

func (r *TextReporter) writeWarn(noticed []string) {
	if len(noticed) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Warn.Render(pretty.Banner(sectionWarn)))
	for _, path := range noticed {
		fmt.Fprintln(r.bw, r.styles.FormatNoticeBlock(path))
	}
}

func (r *TextReporter) writeFail(errored []diag.FileReport) {
	if len(errored) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Fail.Render(pretty.Banner(sectionFail)))
	fmt.Fprintln(r.bw, r.styles.FormatDiagnosticHeader())

	for _, report := range errored {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(report.FilePath))

		rows := make([]string, 0, len(report.Diagnostics))
		for _, d := range report.Diagnostics {
			rows = append(rows, r.styles.FormatDiagnostic(d, r.opts.Detailed))
		}

		if !r.opts.Detailed {
			rows = pretty.Columns(rows, r.width)
		}
		for _, row := range rows {
			fmt.Fprintln(r.bw, row)
		}
	}
}

func (r *TextReporter) writeFailed(failures []runner.Failure) {
	if len(failures) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.Failed.Render(pretty.Banner(sectionFailed)))
	for _, failure := range failures {
		fmt.Fprintln(r.bw, r.styles.FormatFailure(failure.Path, failure.Reason, r.width))
	}
}
