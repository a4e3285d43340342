package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Layout constants.
const (
	BannerWidth   = 40
	bannerLead    = 14
	bannerRune    = "═"
	columnPadding = 2
)

// Banner returns a section title framed by double rules, 40 cells wide:
//
//	══════════════[ PASS ]══════════════════
func Banner(title string) string {
	head := strings.Repeat(bannerRune, bannerLead) + "[ " + title + " ]"
	rest := max(0, BannerWidth-lipgloss.Width(head))
	return head + strings.Repeat(bannerRune, rest)
}

// Rule returns a plain double rule as wide as a banner.
func Rule() string {
	return strings.Repeat(bannerRune, BannerWidth)
}

// Wrap word-wraps s to width cells. Escape sequences do not count toward
// the width. A non-positive width returns s unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wordwrap(s, width, "")
}

// Columns lays cells out column-major in as many columns as fit into width.
// Every column is as wide as the widest cell plus two spaces. When only one
// column fits, each cell gets its own line. Trailing padding is trimmed.
func Columns(cells []string, width int) []string {
	if len(cells) == 0 {
		return nil
	}

	widest := 0
	for _, cell := range cells {
		widest = max(widest, lipgloss.Width(cell))
	}
	colWidth := widest + columnPadding

	cols := max(1, width/colWidth)
	if cols == 1 {
		return append([]string(nil), cells...)
	}

	rows := (len(cells) + cols - 1) / cols
	lines := make([]string, 0, rows)

	for row := range rows {
		var b strings.Builder
		for col := range cols {
			idx := col*rows + row
			if idx >= len(cells) {
				break
			}
			cell := cells[idx]
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", colWidth-lipgloss.Width(cell)))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	return lines
}
