// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Palette colors, kept identical to the historical normino output.
const (
	ColorRed     = lipgloss.Color("#FF4C4C")
	ColorGreen   = lipgloss.Color("#9ED673")
	ColorBlue    = lipgloss.Color("#194885")
	ColorYellow  = lipgloss.Color("#F0E26F")
	ColorCyan    = lipgloss.Color("#0692D5")
	ColorMagenta = lipgloss.Color("#FFB6C1")
	ColorOrange  = lipgloss.Color("#F18F33")
	ColorWhite   = lipgloss.Color("#F5F5F5")
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Section banners
	Pass   lipgloss.Style
	Warn   lipgloss.Style
	Fail   lipgloss.Style
	Failed lipgloss.Style

	// Diagnostic components
	FilePath lipgloss.Style
	Location lipgloss.Style
	RuleID   lipgloss.Style
	Message  lipgloss.Style
	Header   lipgloss.Style
	Notice   lipgloss.Style

	// Summary styles
	Success lipgloss.Style
	Failure lipgloss.Style
	Timing  lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	// Status messages
	Progress  lipgloss.Style
	Cancelled lipgloss.Style
	Prompt    lipgloss.Style
	Info      lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates true color styles. The renderer is pinned to a
// true color profile because the decision to color was already made by
// IsColorEnabled; letting lipgloss sniff the writer again would drop colors
// for --color=always on a pipe.
func newColorStyles() *Styles {
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.TrueColor)

	fg := func(c lipgloss.Color) lipgloss.Style {
		return renderer.NewStyle().Foreground(c)
	}

	return &Styles{
		Pass:   fg(ColorGreen),
		Warn:   fg(ColorYellow),
		Fail:   fg(ColorRed),
		Failed: fg(ColorRed).Bold(true),

		FilePath: fg(ColorCyan),
		Location: fg(ColorYellow),
		RuleID:   fg(ColorRed),
		Message:  fg(ColorWhite),
		Header:   fg(ColorYellow),
		Notice:   fg(ColorYellow),

		Success: fg(ColorGreen),
		Failure: fg(ColorRed),
		Timing:  fg(ColorBlue),

		TableHeader:    renderer.NewStyle().Bold(true).Foreground(ColorWhite),
		TableSeparator: fg(ColorBlue),

		Progress:  fg(ColorCyan),
		Cancelled: fg(ColorOrange),
		Prompt:    fg(ColorOrange),
		Info:      fg(ColorBlue),

		Dim:  renderer.NewStyle().Faint(true),
		Bold: renderer.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(termenv.Ascii)
	plain := renderer.NewStyle()
	return &Styles{
		Pass:           plain,
		Warn:           plain,
		Fail:           plain,
		Failed:         plain,
		FilePath:       plain,
		Location:       plain,
		RuleID:         plain,
		Message:        plain,
		Header:         plain,
		Notice:         plain,
		Success:        plain,
		Failure:        plain,
		Timing:         plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Progress:       plain,
		Cancelled:      plain,
		Prompt:         plain,
		Info:           plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
