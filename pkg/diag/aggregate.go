package diag

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// maxLineSize bounds a single line of linter output.
const maxLineSize = 1024 * 1024

// Aggregator folds linter output lines into a Summary, one line at a time.
// It is not safe for concurrent use.
type Aggregator struct {
	summary *Summary

	// current is the report that detail and notice lines attach to.
	current *FileReport

	// collecting is true while current was opened by an Error! marker.
	collecting bool
}

// NewAggregator returns an Aggregator with an empty summary.
func NewAggregator() *Aggregator {
	return &Aggregator{summary: NewSummary()}
}

// Feed classifies line and folds it into the running summary.
// Unrecognized lines are dropped; nothing here can fail.
func (a *Aggregator) Feed(line string) {
	kind, path := Classify(line)

	switch kind {
	case KindOK:
		a.current = a.summary.open(path, StatusOK)
		a.collecting = false

	case KindError:
		a.current = a.summary.open(path, StatusError)
		a.collecting = true

	case KindDetail:
		if a.current == nil || !a.collecting {
			return
		}
		a.current.Diagnostics = append(a.current.Diagnostics, ParseDetail(a.current.FilePath, line))

	case KindNotice:
		if a.current == nil {
			return
		}
		a.current.Notices = append(a.current.Notices, ParseDetail(a.current.FilePath, line))

	case KindIgnored:
	}
}

// Summary returns the summary built so far. Callers must stop feeding lines
// once they hand the summary out.
func (a *Aggregator) Summary() *Summary {
	return a.summary
}

// Aggregate consumes lines in a single pass and returns the resulting summary.
func Aggregate(lines iter.Seq[string]) *Summary {
	agg := NewAggregator()
	for line := range lines {
		agg.Feed(line)
	}
	return agg.Summary()
}

// Lines yields the lines of r until EOF or a read error. The error, if any,
// is stored in *errp once iteration ends.
func Lines(r io.Reader, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		if err := scanner.Err(); err != nil && errp != nil {
			*errp = fmt.Errorf("read linter output: %w", err)
		}
	}
}

// AggregateReader aggregates everything readable from r. A read error is
// returned together with the partial summary.
func AggregateReader(r io.Reader) (*Summary, error) {
	var err error
	summary := Aggregate(Lines(r, &err))
	return summary, err
}
