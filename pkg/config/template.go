package config

import (
	"bytes"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value.
	// If false, generates a minimal commented template.
	Full bool
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate()
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# norminette executable (name on $PATH or absolute path)
# norminette: norminette

# Extra arguments passed to norminette before the file list
# norminette_args:
#   - "-R"
#   - "CheckForbiddenSourceHeader"

# Files and directories to skip (glob patterns)
# exclude:
#   - "libft"
#   - "tests/**"

# Number of concurrent norminette processes
# jobs: 7

# Files per norminette process
# batch_size: 16

# Time budget per file
# timeout: 5s

# Colored output: auto, always or never
# color: auto

# Output format: text, json or summary
# format: text
`)

	return buf.Bytes()
}

// generateFullTemplate writes the defaults as a complete config file.
func generateFullTemplate() ([]byte, error) {
	content, err := NewConfig().ToYAMLWithHeader(DefaultTemplateHeader())
	if err != nil {
		return nil, fmt.Errorf("render defaults: %w", err)
	}
	return content, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# normino configuration
# Place this file at the root of your project as .normino.yml`
}
