package pretty

import (
	"fmt"
	"strings"

	"github.com/normino/normino/pkg/analysis"
)

const (
	wordFile  = "file"
	wordFiles = "files"
	wordError = "error"
)

// FormatFooter formats the closing statistics block of a text report.
// Files with notices are not counted as correct. The crashed line only
// appears when something crashed.
func (s *Styles) FormatFooter(totals analysis.Totals) string {
	var builder strings.Builder

	builder.WriteString(Rule())
	builder.WriteString("\n")

	builder.WriteString(s.Success.Render(fmt.Sprintf("Correct files: %d", totals.Correct)))
	builder.WriteString("\n")
	builder.WriteString(s.Failure.Render(fmt.Sprintf("Files with errors: %d", totals.WithErrors)))
	builder.WriteString("\n")

	if totals.Failed > 0 {
		builder.WriteString(s.Failure.Render(fmt.Sprintf("Files that crashed norminette: %d", totals.Failed)))
		builder.WriteString("\n")
	}

	builder.WriteString(s.FormatElapsed(totals))
	builder.WriteString("\n")

	return builder.String()
}

// FormatElapsed formats the wall time of a run in seconds.
func (s *Styles) FormatElapsed(totals analysis.Totals) string {
	seconds := float64(totals.DurationMS) / 1000
	return s.Timing.Render(fmt.Sprintf("Execution time: %.2f seconds", seconds))
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 errors in 3 files (8 ok, 1 crashed)".
func (s *Styles) FormatSummaryOneLine(totals analysis.Totals) string {
	if !totals.HasErrors() {
		return s.Success.Render("Norm OK") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", totals.Files, plural(totals.Files, wordFile, wordFiles))) + "\n"
	}

	parts := []string{
		s.Failure.Render(fmt.Sprintf("%d %s", totals.Diagnostics, plural(totals.Diagnostics, wordError, "errors"))) +
			fmt.Sprintf(" in %d %s", totals.WithErrors, plural(totals.WithErrors, wordFile, wordFiles)),
		s.Success.Render(fmt.Sprintf("%d ok", totals.OK)),
	}
	if totals.Failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d crashed", totals.Failed)))
	}

	return parts[0] + " (" + strings.Join(parts[1:], ", ") + ")\n"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
