package config

import "strings"

// OutputFormat specifies the output format for lint results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// ColorMode controls colored output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is known.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a user supplied name into an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, bool) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	return format, format.IsValid()
}

// ParseColorMode converts a user supplied name into a ColorMode.
func ParseColorMode(name string) (ColorMode, bool) {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(name)))
	return mode, mode.IsValid()
}
