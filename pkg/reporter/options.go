package reporter

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ErrorOnly hides the list of files that passed.
	ErrorOnly bool

	// SummaryOnly prints only the closing statistics.
	SummaryOnly bool

	// Detailed prints the message of every norm error and disables the
	// column layout.
	Detailed bool

	// Compact uses minified JSON.
	Compact bool

	// Width is the terminal width used for wrapping. Zero detects it from
	// Writer.
	Width int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer: os.Stdout,
		Format: FormatText,
		Color:  "auto",
	}
}
