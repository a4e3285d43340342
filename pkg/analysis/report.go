package analysis

import "time"

// Report contains pre-computed views of a lint run.
// Computed once by Analyze(), used by all renderers.
type Report struct {
	// ByFile groups diagnostics by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups diagnostics by norm rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	// Files is the number of files norminette reported on.
	Files int `json:"filesChecked"`

	// OK is the number of files without norm errors.
	OK int `json:"filesOk"`

	// Correct is the number of OK files that carry no notices either.
	Correct int `json:"filesCorrect"`

	// WithErrors is the number of files with at least one norm error.
	WithErrors int `json:"filesWithErrors"`

	// WithNotices is the number of files carrying notices.
	WithNotices int `json:"filesWithNotices"`

	// Failed is the number of files norminette never reported on.
	Failed int `json:"filesFailed"`

	// Diagnostics is the total number of norm errors.
	Diagnostics int `json:"totalErrors"`

	// Notices is the total number of notices.
	Notices int `json:"totalNotices"`

	// Unconfirmed is the number of files marked Error! without details.
	Unconfirmed int `json:"unconfirmed"`

	// DurationMS is the wall time of the run in milliseconds.
	DurationMS int64 `json:"durationMs"`
}

// HasErrors returns true if any file has norm errors or could not be checked.
func (t Totals) HasErrors() bool {
	return t.WithErrors > 0 || t.Failed > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path   string   `json:"path"`
	Issues int      `json:"issues"`
	Rules  []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	Rule   string   `json:"rule"`
	Issues int      `json:"issues"`
	Files  []string `json:"files,omitempty"`
}
