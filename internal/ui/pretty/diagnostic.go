package pretty

import (
	"fmt"
	"strconv"

	"github.com/normino/normino/pkg/diag"
)

// positionWidth is the width of the line and column fields.
const positionWidth = 4

// noticeHint is printed under every file that carries notices.
const noticeHint = "Make sure your global is const or static!"

// FormatDiagnostic formats a single diagnostic as a "line col RULE" row.
// When detailed is set the message follows the rule. Lines the parser could
// not understand are shown as norminette printed them.
func (s *Styles) FormatDiagnostic(d diag.Diagnostic, detailed bool) string {
	if d.Malformed() {
		return s.Message.Render(d.Message)
	}

	line, col := "-", "-"
	if d.HasPosition() {
		line = strconv.Itoa(d.LineNumber())
		col = strconv.Itoa(d.ColumnNumber())
	}

	row := fmt.Sprintf("%s %s %s",
		s.Location.Render(fmt.Sprintf("%*s", positionWidth, line)),
		s.Location.Render(fmt.Sprintf("%*s", positionWidth, col)),
		s.RuleID.Render(d.Rule),
	)

	if detailed && d.Message != "" {
		row += " " + d.Message
	}

	return row
}

// FormatDiagnosticHeader returns the column header printed above the
// diagnostics table.
func (s *Styles) FormatDiagnosticHeader() string {
	return s.Header.Render(fmt.Sprintf("%*s %*s Error Description", positionWidth, "Line", positionWidth, "Col"))
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string) string {
	return s.FilePath.Render(path)
}

// FormatNoticeBlock formats the warning printed for a file with notices.
func (s *Styles) FormatNoticeBlock(path string) string {
	return s.FilePath.Render(path+":") + "\n   " + s.Notice.Render(noticeHint)
}

// FormatFailure formats a file norminette could not check, wrapped to width.
func (s *Styles) FormatFailure(path, reason string, width int) string {
	return s.Warn.Render(Wrap(path+": "+reason, width))
}
