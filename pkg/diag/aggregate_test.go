package diag_test

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normino/normino/pkg/diag"
)

// realOutput is captured from norminette 3.3.55.
const realOutput = `ft_strlen.c: OK!
ft_putstr.c: Error!
Error: SPACE_BEFORE_FUNC    (line:   3, col:  10):	space before function name
Error: INVALID_HEADER       (line:   1, col:   1):	Missing or invalid 42 header
globals.c: OK!
Notice: GLOBAL_VAR_DETECTED  (line:   5, col:   1):	Global variable present in file. Make sure it is a reasonable choice.
broken.c: Error!
Error: Unexpected EOF
`

func intPtr(v int) *int { return &v }

func TestAggregate_MixedResults(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"a.c: OK!",
		"b.c: Error!",
		"  Rule1 line 3, col 5: bad thing",
	}))

	assert.Equal(t, 2, summary.TotalFiles())
	assert.Equal(t, 1, summary.OKCount())
	assert.Equal(t, 1, summary.ErrorCount())

	report, ok := summary.Report("b.c")
	require.True(t, ok)
	assert.Equal(t, diag.StatusError, report.Status())
	assert.Equal(t, []diag.Diagnostic{{
		FilePath: "b.c",
		Rule:     "Rule1",
		Line:     intPtr(3),
		Column:   intPtr(5),
		Message:  "bad thing",
	}}, report.Diagnostics)
}

func TestAggregate_BannerIsIgnored(t *testing.T) {
	t.Parallel()

	base := []string{"a.c: OK!", "b.c: Error!", "  Rule1 line 3, col 5: bad thing"}
	withBanner := []string{"### some banner ###", "a.c: OK!", "### some banner ###",
		"b.c: Error!", "  Rule1 line 3, col 5: bad thing", "### some banner ###"}

	want := diag.Aggregate(slices.Values(base))
	got := diag.Aggregate(slices.Values(withBanner))

	assert.Equal(t, want.TotalFiles(), got.TotalFiles())
	assert.Equal(t, want.OKCount(), got.OKCount())
	assert.Equal(t, want.ErrorCount(), got.ErrorCount())
	assert.Equal(t, want.DiagnosticCount(), got.DiagnosticCount())
	assert.Equal(t, want.Reports(), got.Reports())
}

func TestAggregate_DetailWithoutPosition(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"w.c: Error!",
		"  WeirdRule: something odd",
	}))

	report, ok := summary.Report("w.c")
	require.True(t, ok)
	require.Len(t, report.Diagnostics, 1)

	got := report.Diagnostics[0]
	assert.Equal(t, "WeirdRule", got.Rule)
	assert.Nil(t, got.Line)
	assert.Nil(t, got.Column)
	assert.Equal(t, "something odd", got.Message)
	assert.False(t, got.Malformed())
}

func TestAggregate_MalformedDetailIsKept(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"m.c: Error!",
		"  ???",
		"\tno rule here",
		"Error: Unexpected EOF",
	}))

	report, ok := summary.Report("m.c")
	require.True(t, ok)
	require.Len(t, report.Diagnostics, 3)

	for _, d := range report.Diagnostics {
		assert.True(t, d.Malformed())
		assert.Nil(t, d.Line)
	}
	assert.Equal(t, "???", report.Diagnostics[0].Message)
	assert.Equal(t, "no rule here", report.Diagnostics[1].Message)
	assert.Equal(t, "Error: Unexpected EOF", report.Diagnostics[2].Message)
}

func TestAggregate_RealOutput(t *testing.T) {
	t.Parallel()

	summary, err := diag.AggregateReader(strings.NewReader(realOutput))
	require.NoError(t, err)

	assert.Equal(t, []string{"ft_strlen.c", "ft_putstr.c", "globals.c", "broken.c"}, summary.Paths())
	assert.Equal(t, 4, summary.TotalFiles())
	assert.Equal(t, 2, summary.OKCount())
	assert.Equal(t, 2, summary.ErrorCount())
	assert.Equal(t, 3, summary.DiagnosticCount())
	assert.Equal(t, 1, summary.NoticeCount())

	putstr, _ := summary.Report("ft_putstr.c")
	require.Len(t, putstr.Diagnostics, 2)
	assert.Equal(t, "SPACE_BEFORE_FUNC", putstr.Diagnostics[0].Rule)
	assert.Equal(t, 3, putstr.Diagnostics[0].LineNumber())
	assert.Equal(t, 10, putstr.Diagnostics[0].ColumnNumber())
	assert.Equal(t, "space before function name", putstr.Diagnostics[0].Message)
	assert.Equal(t, "INVALID_HEADER", putstr.Diagnostics[1].Rule)

	globals, _ := summary.Report("globals.c")
	assert.Equal(t, diag.StatusOK, globals.Status())
	require.True(t, globals.HasNotices())
	assert.Equal(t, "GLOBAL_VAR_DETECTED", globals.Notices[0].Rule)
	assert.Empty(t, globals.Diagnostics)
}

func TestAggregate_LastReportWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		lines      []string
		wantStatus diag.Status
		wantDiags  int
	}{
		{
			name:       "error then ok",
			lines:      []string{"x.c: Error!", "  R: one", "y.c: OK!", "x.c: OK!"},
			wantStatus: diag.StatusOK,
		},
		{
			name:       "ok then error",
			lines:      []string{"x.c: OK!", "x.c: Error!", "  R: one", "  R: two"},
			wantStatus: diag.StatusError,
			wantDiags:  2,
		},
		{
			name:       "error then error replaces details",
			lines:      []string{"x.c: Error!", "  R: one", "  R: two", "x.c: Error!", "  R: three"},
			wantStatus: diag.StatusError,
			wantDiags:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			summary := diag.Aggregate(slices.Values(tt.lines))
			report, ok := summary.Report("x.c")
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, report.Status())
			assert.Len(t, report.Diagnostics, tt.wantDiags)
			assert.Equal(t, "x.c", summary.Paths()[0], "first-seen position is kept")
		})
	}
}

func TestAggregate_DetailOutsideErrorIsIgnored(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"  R line 1, col 1: orphan",
		"a.c: OK!",
		"  R line 1, col 1: after ok",
	}))

	assert.Equal(t, 1, summary.TotalFiles())
	assert.Equal(t, 0, summary.DiagnosticCount())
	assert.Equal(t, 1, summary.OKCount())
}

func TestAggregate_Unconfirmed(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"bare.c: Error!",
		"full.c: Error!",
		"  R: detail",
	}))

	assert.Equal(t, []string{"bare.c"}, summary.Unconfirmed())
	report, _ := summary.Report("bare.c")
	assert.Equal(t, diag.StatusOK, report.Status())
}

func TestAggregate_Invariants(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		nil,
		{"a.c: OK!"},
		{"a.c: Error!", "  R: x", "b.c: OK!", "c.h: Error!", "Error: R (line: 1, col: 2): y"},
		strings.Split(realOutput, "\n"),
		{"a.c: OK!", "a.c: Error!", "  junk", "b.c: Error!", "b.c: OK!"},
	}

	for _, lines := range inputs {
		summary := diag.Aggregate(slices.Values(lines))

		assert.Equal(t, summary.TotalFiles(), summary.OKCount()+summary.ErrorCount())
		for _, report := range summary.Reports() {
			if report.Status() == diag.StatusError {
				assert.NotEmpty(t, report.Diagnostics)
			} else {
				assert.Empty(t, report.Diagnostics)
			}
			for _, d := range report.Diagnostics {
				assert.Equal(t, report.FilePath, d.FilePath)
			}
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	lines := strings.Split(realOutput, "\n")
	first := diag.Aggregate(slices.Values(lines))
	second := diag.Aggregate(slices.Values(lines))

	assert.Equal(t, first.Reports(), second.Reports())
	assert.Equal(t, first.TotalFiles(), second.TotalFiles())
	assert.Equal(t, first.OKCount(), second.OKCount())
	assert.Equal(t, first.ErrorCount(), second.ErrorCount())
}

func TestAggregate_OrderPreserved(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{
		"z.c: OK!", "a.c: Error!", "  R: x", "m.h: OK!", "z.c: Error!", "  R: y",
	}))

	assert.Equal(t, []string{"z.c", "a.c", "m.h"}, summary.Paths())
}

func TestAggregator_FeedIncrementally(t *testing.T) {
	t.Parallel()

	agg := diag.NewAggregator()
	agg.Feed("a.c: Error!")
	assert.Equal(t, 0, agg.Summary().ErrorCount())

	agg.Feed("  R line 2, col 3: msg")
	assert.Equal(t, 1, agg.Summary().ErrorCount())
	assert.Equal(t, 1, agg.Summary().DiagnosticCount())
}

func TestSummary_Merge(t *testing.T) {
	t.Parallel()

	first := diag.Aggregate(slices.Values([]string{"a.c: OK!", "b.c: Error!", "  R: x"}))
	second := diag.Aggregate(slices.Values([]string{"c.c: Error!", "  R: y", "b.c: OK!"}))

	first.Merge(second)
	first.Merge(nil)

	assert.Equal(t, []string{"a.c", "b.c", "c.c"}, first.Paths())
	assert.Equal(t, 3, first.TotalFiles())
	assert.Equal(t, 2, first.OKCount())
	assert.Equal(t, 1, first.ErrorCount())
}

func TestSummary_ReportIsACopy(t *testing.T) {
	t.Parallel()

	summary := diag.Aggregate(slices.Values([]string{"a.c: Error!", "  R: x"}))
	report, _ := summary.Report("a.c")
	report.Diagnostics[0].Message = "changed"
	report.Diagnostics = nil

	again, _ := summary.Report("a.c")
	require.Len(t, again.Diagnostics, 1)
	assert.Equal(t, "x", again.Diagnostics[0].Message)
}

func TestAggregateReader_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reader := iotest.ErrReader(boom)

	summary, err := diag.AggregateReader(reader)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, summary.TotalFiles())
}
