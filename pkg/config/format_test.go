package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/normino/normino/pkg/config"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  config.OutputFormat
		ok    bool
	}{
		{"text", config.FormatText, true},
		{"JSON", config.FormatJSON, true},
		{" summary ", config.FormatSummary, true},
		{"sarif", config.OutputFormat("sarif"), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := config.ParseOutputFormat(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  config.ColorMode
		ok    bool
	}{
		{"auto", config.ColorAuto, true},
		{"Always", config.ColorAlways, true},
		{"never", config.ColorNever, true},
		{"sometimes", config.ColorMode("sometimes"), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := config.ParseColorMode(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
