package runner

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/normino/normino/pkg/diag"
)

// Failure records a file norminette could not check.
type Failure struct {
	// Path is the file path as passed to norminette.
	Path string

	// Reason explains what went wrong (timeout, crash output, ...).
	Reason string
}

// Result is the overall runner result.
type Result struct {
	// Summary is the aggregated linter output for every checked file.
	Summary *diag.Summary

	// Failures lists files the linter never reported on, sorted by path.
	Failures []Failure

	// FilesDiscovered is the number of files handed to the linter.
	FilesDiscovered int

	// WorkingDir is the directory file paths are relative to.
	WorkingDir string

	// Duration is the wall time of the lint run.
	Duration time.Duration
}

// HasFailures reports whether any file has norm errors or could not be checked.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Summary.ErrorCount() > 0 || len(r.Failures) > 0
}

// ErrorsByDir counts files with norm errors or failures per absolute
// directory.
func (r *Result) ErrorsByDir() map[string]int {
	stats := make(map[string]int)
	if r == nil {
		return stats
	}

	add := func(path string) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.WorkingDir, path)
		}
		stats[filepath.Dir(path)]++
	}

	for _, report := range r.Summary.Reports() {
		if report.Status() == diag.StatusError {
			add(report.FilePath)
		}
	}
	for _, failure := range r.Failures {
		add(failure.Path)
	}

	return stats
}

// SortedDirs returns the keys of an ErrorsByDir map in order.
func SortedDirs(stats map[string]int) []string {
	dirs := make([]string, 0, len(stats))
	for dir := range stats {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
