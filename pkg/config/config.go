// Package config defines core configuration types for normino.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import "time"

// Defaults for persisted settings.
const (
	DefaultNorminette   = "norminette"
	DefaultJobs         = 7
	DefaultBatchSize    = 16
	DefaultTimeout      = 5 * time.Second
	DefaultServer       = "https://smasse.xyz"
	DefaultUpdateModule = "github.com/normino/normino/cmd/normino"
)

// Config is the root configuration structure for normino.
type Config struct {
	// Norminette is the norminette executable name or path.
	Norminette string `yaml:"norminette"`

	// NorminetteArgs are extra arguments passed before the file list.
	NorminetteArgs []string `yaml:"norminette_args,omitempty"`

	// Exclude contains glob patterns for files and directories to skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// FollowSymlinks enables traversal of directory symlinks.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// Jobs is the maximum number of concurrent norminette processes.
	Jobs int `yaml:"jobs"`

	// BatchSize is the number of files handed to one norminette process.
	BatchSize int `yaml:"batch_size"`

	// Timeout is the per-file time budget, e.g. "5s".
	Timeout time.Duration `yaml:"timeout"`

	// Color controls colored output: auto, always or never.
	Color ColorMode `yaml:"color"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"format"`

	// Server is the base URL testers and the installer are fetched from.
	Server string `yaml:"server"`

	// UpdateModule is the module path installed by "normino update".
	UpdateModule string `yaml:"update_module"`

	// CLI-level options (not persisted to config files).

	// ErrorOnly hides passing files.
	ErrorOnly bool `yaml:"-"`

	// SummaryOnly prints only the summary footer.
	SummaryOnly bool `yaml:"-"`

	// Detailed prints the message of every diagnostic.
	Detailed bool `yaml:"-"`

	// ListFiles prints the files that would be checked and exits.
	ListFiles bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Norminette:   DefaultNorminette,
		Jobs:         DefaultJobs,
		BatchSize:    DefaultBatchSize,
		Timeout:      DefaultTimeout,
		Color:        ColorAuto,
		Format:       FormatText,
		Server:       DefaultServer,
		UpdateModule: DefaultUpdateModule,
	}
}
