package diag

// Summary is the aggregated result of one linter invocation.
// Reports keep the order in which each path was first seen. All counts are
// derived from the reports on demand.
type Summary struct {
	order    []string
	reports  map[string]*FileReport
	declared map[string]Status
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		reports:  make(map[string]*FileReport),
		declared: make(map[string]Status),
	}
}

// open starts a fresh report for path. A path seen before keeps its
// original position; its previous content is discarded (last report wins).
func (s *Summary) open(path string, declared Status) *FileReport {
	if s.reports == nil {
		s.reports = make(map[string]*FileReport)
		s.declared = make(map[string]Status)
	}
	report := &FileReport{FilePath: path}
	if _, seen := s.reports[path]; !seen {
		s.order = append(s.order, path)
	}
	s.reports[path] = report
	s.declared[path] = declared
	return report
}

// Report returns a copy of the report for path.
func (s *Summary) Report(path string) (FileReport, bool) {
	report, ok := s.reports[path]
	if !ok {
		return FileReport{}, false
	}
	return report.clone(), true
}

// Reports returns copies of all reports in first-seen order.
func (s *Summary) Reports() []FileReport {
	out := make([]FileReport, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.reports[path].clone())
	}
	return out
}

// Paths returns the reported paths in first-seen order.
func (s *Summary) Paths() []string {
	return append([]string(nil), s.order...)
}

// TotalFiles is the number of distinct files reported.
func (s *Summary) TotalFiles() int {
	return len(s.order)
}

// OKCount is the number of files whose report has no diagnostics.
func (s *Summary) OKCount() int {
	return s.countStatus(StatusOK)
}

// ErrorCount is the number of files with at least one diagnostic.
func (s *Summary) ErrorCount() int {
	return s.countStatus(StatusError)
}

func (s *Summary) countStatus(status Status) int {
	var count int
	for _, path := range s.order {
		if s.reports[path].Status() == status {
			count++
		}
	}
	return count
}

// DiagnosticCount is the total number of diagnostics across all files.
func (s *Summary) DiagnosticCount() int {
	var count int
	for _, path := range s.order {
		count += len(s.reports[path].Diagnostics)
	}
	return count
}

// NoticeCount is the total number of notices across all files.
func (s *Summary) NoticeCount() int {
	var count int
	for _, path := range s.order {
		count += len(s.reports[path].Notices)
	}
	return count
}

// Unconfirmed lists files the linter marked "Error!" without printing any
// detail line. Their status is OK because they carry no diagnostics.
func (s *Summary) Unconfirmed() []string {
	var out []string
	for _, path := range s.order {
		if s.declared[path] == StatusError && len(s.reports[path].Diagnostics) == 0 {
			out = append(out, path)
		}
	}
	return out
}

// Merge folds other into s as if other's output had followed s's output.
// Paths reported by both take other's report.
func (s *Summary) Merge(other *Summary) {
	if other == nil {
		return
	}
	for _, path := range other.order {
		report := s.open(path, other.declared[path])
		*report = other.reports[path].clone()
	}
}
