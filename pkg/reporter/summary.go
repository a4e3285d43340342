package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/normino/normino/internal/ui/pretty"
	"github.com/normino/normino/pkg/analysis"
)

// Table layout constants for summary output.
// Both tables use the same width for visual consistency.
const (
	tableWidth        = 80 // Width of table separators (same for both tables).
	ruleColWidth      = 30 // Width of the rule name column.
	fileColWidth      = 56 // Width of the file path column.
	numColWidth       = 7  // Width of numeric columns.
	maxRuleNameLength = 28 // Maximum characters for rule name before truncation.
	maxFilePathLength = 54 // Maximum characters for file path before truncation.
)

// padRight pads a string to the given width with spaces on the right.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string to the given width with spaces on the left.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// SummaryRenderer formats results as aggregated summary tables.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasErrors() {
		fmt.Fprint(r.out, r.styles.FormatSummaryOneLine(report.Totals))
		return nil
	}

	if !r.opts.SummaryOnly {
		if len(report.ByRule) > 0 {
			r.renderRuleTable(report.ByRule)
			fmt.Fprintln(r.out)
		}
		if len(report.ByFile) > 0 {
			r.renderFileTable(report.ByFile)
			fmt.Fprintln(r.out)
		}
	}

	fmt.Fprint(r.out, r.styles.Bold.Render("Total: ")+r.styles.FormatSummaryOneLine(report.Totals))

	return nil
}

func (r *SummaryRenderer) separator() string {
	return r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))
}

func (r *SummaryRenderer) renderRuleTable(rules []analysis.RuleAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Rules Summary"))
	fmt.Fprintln(r.out, r.separator())

	// Header - pad first, then style
	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("Rule", ruleColWidth)),
		r.styles.TableHeader.Render(padLeft("Count", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Files", numColWidth)),
	)
	fmt.Fprintln(r.out, r.separator())

	for _, rule := range rules {
		name := rule.Rule
		if len(name) > maxRuleNameLength {
			name = name[:maxRuleNameLength] + "…"
		}

		fmt.Fprintf(r.out, "%s %s %s\n",
			r.styles.RuleID.Render(padRight(name, ruleColWidth)),
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(len(rule.Files)), numColWidth),
		)
	}
}

func (r *SummaryRenderer) renderFileTable(files []analysis.FileAnalysis) {
	fmt.Fprintln(r.out, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.out, r.separator())

	fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.TableHeader.Render(padRight("File", fileColWidth)),
		r.styles.TableHeader.Render(padLeft("Errors", numColWidth)),
		r.styles.TableHeader.Render(padLeft("Rules", numColWidth)),
	)
	fmt.Fprintln(r.out, r.separator())

	for _, file := range files {
		path := file.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}

		fmt.Fprintf(r.out, "%s %s %s\n",
			r.styles.FilePath.Render(padRight(path, fileColWidth)),
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(len(file.Rules)), numColWidth),
		)
	}
}
