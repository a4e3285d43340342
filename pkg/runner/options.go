// Package runner discovers C sources and runs norminette over them.
package runner

import "time"

// Defaults applied when the corresponding option is unset.
const (
	DefaultLinter    = "norminette"
	DefaultJobs      = 7
	DefaultBatchSize = 16
	DefaultTimeout   = 5 * time.Second
)

// Options controls discovery and linting.
type Options struct {
	// Paths are files, directories or shell patterns such as "*.c".
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths and the
	// directory norminette runs in. If empty, the process working directory
	// is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// to check. Defaults to [".c", ".h"] via DefaultExtensions().
	Extensions []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Linter is the norminette executable. Defaults to DefaultLinter.
	Linter string

	// LinterArgs are extra arguments placed before the file list.
	LinterArgs []string

	// Jobs is the maximum number of concurrent norminette processes.
	// 0 or negative means DefaultJobs.
	Jobs int

	// BatchSize is the number of files passed to a single norminette process.
	BatchSize int

	// Timeout is the per-file time budget; a batch gets Timeout * len(batch).
	Timeout time.Duration
}

// DefaultExtensions returns the extensions norminette understands.
func DefaultExtensions() []string {
	return []string{".c", ".h"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveLinter() string {
	if o.Linter == "" {
		return DefaultLinter
	}
	return o.Linter
}

func (o Options) effectiveJobs() int {
	if o.Jobs <= 0 {
		return DefaultJobs
	}
	return o.Jobs
}

func (o Options) effectiveBatchSize() int {
	if o.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

func (o Options) batchTimeout(files int) time.Duration {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return timeout * time.Duration(max(files, 1))
}
