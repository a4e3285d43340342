package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/normino/normino/pkg/diag"
	"github.com/normino/normino/pkg/runner"
)

// fakeNorminette implements runner.CommandRunner by emitting canned output.
type fakeNorminette struct {
	// output maps a file argument to the lines norminette prints for it.
	output map[string][]string

	// run, when set, replaces the default behavior.
	run func(ctx context.Context, args []string, onLine func(string)) (runner.ExitStatus, error)

	mu      sync.Mutex
	batches [][]string
	active  atomic.Int32
	peak    atomic.Int32
}

func (f *fakeNorminette) Run(ctx context.Context, _, _ string, args []string, onLine func(string)) (runner.ExitStatus, error) {
	f.mu.Lock()
	f.batches = append(f.batches, slices.Clone(args))
	f.mu.Unlock()

	cur := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.peak.Load()
		if cur <= peak || f.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	if f.run != nil {
		return f.run(ctx, args, onLine)
	}

	code := 0
	for _, arg := range args {
		lines, ok := f.output[arg]
		if !ok {
			// Like norminette, only source arguments get a verdict.
			if !isSource(arg) {
				continue
			}
			lines = []string{arg + ": OK!"}
		}
		for _, line := range lines {
			if strings.HasSuffix(line, ": Error!") {
				code = 1
			}
			onLine(line)
		}
	}
	return runner.ExitStatus{Code: code}, nil
}

func isSource(arg string) bool {
	ext := filepath.Ext(arg)
	return ext == ".c" || ext == ".h"
}

func (f *fakeNorminette) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := runner.New(nil)
	if r == nil {
		t.Fatal("New() returned nil")
	}
	if _, ok := r.Cmd.(*runner.ExecRunner); !ok {
		t.Errorf("expected ExecRunner by default, got %T", r.Cmd)
	}

	fake := &fakeNorminette{}
	if runner.New(fake).Cmd != fake {
		t.Error("New() should keep the given CommandRunner")
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "README.md")

	fake := &fakeNorminette{}
	result, err := runner.New(fake).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.FilesDiscovered != 0 {
		t.Errorf("expected 0 files, got %d", result.FilesDiscovered)
	}
	if result.Summary.TotalFiles() != 0 {
		t.Errorf("expected empty summary, got %d files", result.Summary.TotalFiles())
	}
	if fake.batchCount() != 0 {
		t.Errorf("norminette should not run without files, ran %d times", fake.batchCount())
	}
	if result.HasFailures() {
		t.Error("HasFailures() should be false")
	}
}

func TestRunner_Run_MixedResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "ok.c", "src/bad.c", "inc/ft.h")

	fake := &fakeNorminette{output: map[string][]string{
		"src/bad.c": {
			"src/bad.c: Error!",
			"Error: INVALID_HEADER       (line:   1, col:   1):	Missing or invalid 42 header",
			"Error: SPACE_REPLACE_TAB    (line:  12, col:   5):	Found space when expecting tab",
		},
	}}

	result, err := runner.New(fake).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	summary := result.Summary
	if summary.TotalFiles() != 3 {
		t.Fatalf("expected 3 files, got %d", summary.TotalFiles())
	}
	if summary.OKCount() != 2 || summary.ErrorCount() != 1 {
		t.Errorf("expected 2 OK and 1 error, got %d/%d", summary.OKCount(), summary.ErrorCount())
	}
	if summary.DiagnosticCount() != 2 {
		t.Errorf("expected 2 diagnostics, got %d", summary.DiagnosticCount())
	}

	report, ok := summary.Report("src/bad.c")
	if !ok {
		t.Fatal("missing report for src/bad.c")
	}
	if report.Status() != diag.StatusError {
		t.Errorf("expected ERROR status, got %s", report.Status())
	}
	if report.Diagnostics[1].Rule != "SPACE_REPLACE_TAB" || report.Diagnostics[1].LineNumber() != 12 {
		t.Errorf("unexpected diagnostic: %+v", report.Diagnostics[1])
	}

	if len(result.Failures) != 0 {
		t.Errorf("expected no failures, got %v", result.Failures)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() should be true with norm errors")
	}
}

func TestRunner_Run_Batching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 10 {
		writeTree(t, dir, fmt.Sprintf("f%02d.c", i))
	}

	fake := &fakeNorminette{}
	result, err := runner.New(fake).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		BatchSize:  4,
		Jobs:       2,
		LinterArgs: []string{"-R", "CheckForbiddenSourceHeader"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if fake.batchCount() != 3 {
		t.Fatalf("expected 3 batches, got %d", fake.batchCount())
	}
	for _, batch := range fake.batches {
		if len(batch) < 3 || batch[0] != "-R" {
			t.Errorf("linter args should lead every batch: %v", batch)
		}
		if len(batch)-2 > 4 {
			t.Errorf("batch exceeds batch size: %v", batch)
		}
	}
	if result.Summary.OKCount() != 10 {
		t.Errorf("expected 10 OK files, got %d", result.Summary.OKCount())
	}
	for _, path := range result.Summary.Paths() {
		if !isSource(path) {
			t.Errorf("linter argument %q reported as a file", path)
		}
	}
	if len(result.Failures) != 0 {
		t.Errorf("linter arguments should not produce failures: %v", result.Failures)
	}
	if peak := fake.peak.Load(); peak > 2 {
		t.Errorf("expected at most 2 concurrent processes, saw %d", peak)
	}
}

func TestRunner_Run_DeterministicOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var want []string
	for i := range 12 {
		name := fmt.Sprintf("m%02d.c", i)
		writeTree(t, dir, name)
		want = append(want, name)
	}

	// Later batches finish first.
	fake := &fakeNorminette{}
	fake.run = func(_ context.Context, args []string, onLine func(string)) (runner.ExitStatus, error) {
		if args[0] < "m06.c" {
			time.Sleep(20 * time.Millisecond)
		}
		for _, arg := range args {
			onLine(arg + ": OK!")
		}
		return runner.ExitStatus{}, nil
	}

	result, err := runner.New(fake).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		BatchSize:  2,
		Jobs:       6,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := result.Summary.Paths(); !slices.Equal(got, want) {
		t.Errorf("paths out of order:\ngot  %v\nwant %v", got, want)
	}
}

func TestRunner_Run_Timeout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "fast.c", "slow.c")

	fake := &fakeNorminette{}
	fake.run = func(ctx context.Context, args []string, onLine func(string)) (runner.ExitStatus, error) {
		if slices.Contains(args, "slow.c") {
			<-ctx.Done()
			return runner.ExitStatus{Code: -1}, ctx.Err()
		}
		for _, arg := range args {
			onLine(arg + ": OK!")
		}
		return runner.ExitStatus{}, nil
	}

	result, err := runner.New(fake).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		BatchSize:  1,
		Timeout:    10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Summary.OKCount() != 1 {
		t.Errorf("expected fast.c to pass, got %d OK", result.Summary.OKCount())
	}
	if len(result.Failures) != 1 || result.Failures[0].Path != "slow.c" {
		t.Fatalf("expected a failure for slow.c, got %v", result.Failures)
	}
	if !strings.Contains(result.Failures[0].Reason, "timed out") {
		t.Errorf("unexpected reason: %q", result.Failures[0].Reason)
	}
}

func TestRunner_Run_CrashedProcess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.c", "b.c", "c.c")

	fake := &fakeNorminette{}
	fake.run = func(_ context.Context, args []string, onLine func(string)) (runner.ExitStatus, error) {
		// Reports the first file, then dies.
		onLine(args[0] + ": OK!")
		return runner.ExitStatus{Code: 1, Stderr: "Traceback: UnicodeDecodeError"}, nil
	}

	result, err := runner.New(fake).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Summary.TotalFiles() != 1 {
		t.Errorf("expected 1 reported file, got %d", result.Summary.TotalFiles())
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %v", result.Failures)
	}
	for _, failure := range result.Failures {
		if failure.Reason != "Traceback: UnicodeDecodeError" {
			t.Errorf("unexpected reason for %s: %q", failure.Path, failure.Reason)
		}
	}
	if result.Failures[0].Path != "b.c" || result.Failures[1].Path != "c.c" {
		t.Errorf("failures should be sorted by path: %v", result.Failures)
	}
}

func TestRunner_Run_SilentFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "quiet.c")

	fake := &fakeNorminette{output: map[string][]string{"quiet.c": nil}}
	result, err := runner.New(fake).Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Failures) != 1 || result.Failures[0].Reason != "no output from norminette" {
		t.Errorf("unexpected failures: %v", result.Failures)
	}
}

func TestRunner_Run_LinterNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "a.c", "b.c")

	fake := &fakeNorminette{}
	fake.run = func(context.Context, []string, func(string)) (runner.ExitStatus, error) {
		return runner.ExitStatus{Code: -1}, fmt.Errorf("%w: exec: not found", runner.ErrLinterNotFound)
	}

	result, err := runner.New(fake).Run(context.Background(), runner.Options{WorkingDir: dir, BatchSize: 1})
	if !errors.Is(err, runner.ErrLinterNotFound) {
		t.Fatalf("expected ErrLinterNotFound, got %v", err)
	}
	if result != nil {
		t.Error("no partial result should be returned")
	}
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 8 {
		writeTree(t, dir, fmt.Sprintf("c%d.c", i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{}, 8)
	fake := &fakeNorminette{}
	fake.run = func(ctx context.Context, _ []string, _ func(string)) (runner.ExitStatus, error) {
		started <- struct{}{}
		<-ctx.Done()
		return runner.ExitStatus{Code: -1}, ctx.Err()
	}

	go func() {
		<-started
		cancel()
	}()

	result, err := runner.New(fake).Run(ctx, runner.Options{WorkingDir: dir, BatchSize: 1, Jobs: 2})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Error("no partial result should be returned")
	}
}

func TestRunner_Run_ExecRunner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, "good.c", "bad.c")

	script := filepath.Join(t.TempDir(), "norminette")
	body := `#!/bin/sh
code=0
for f in "$@"; do
	case "$f" in
	*bad*)
		echo "$f: Error!"
		echo "Error: TOO_MANY_LINES       (line:  30, col:   1):	Function has more than 25 lines"
		code=1
		;;
	*)
		echo "$f: OK!"
		;;
	esac
done
exit $code
`
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := runner.New(nil).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Linter:     script,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Summary.OKCount() != 1 || result.Summary.ErrorCount() != 1 {
		t.Errorf("expected 1 OK and 1 error, got %d/%d", result.Summary.OKCount(), result.Summary.ErrorCount())
	}
	report, _ := result.Summary.Report("bad.c")
	if len(report.Diagnostics) != 1 || report.Diagnostics[0].Rule != "TOO_MANY_LINES" {
		t.Errorf("unexpected diagnostics: %+v", report.Diagnostics)
	}
	if len(result.Failures) != 0 {
		t.Errorf("exit code 1 with full output is not a failure: %v", result.Failures)
	}
}

func TestExecRunner_NotFound(t *testing.T) {
	t.Parallel()

	_, err := (&runner.ExecRunner{}).Run(context.Background(), t.TempDir(), "normino-no-such-linter", nil, func(string) {})
	if !errors.Is(err, runner.ErrLinterNotFound) {
		t.Fatalf("expected ErrLinterNotFound, got %v", err)
	}
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	var nilResult *runner.Result
	if nilResult.HasFailures() {
		t.Error("nil result should have no failures")
	}

	clean := &runner.Result{Summary: diag.NewSummary()}
	if clean.HasFailures() {
		t.Error("empty result should have no failures")
	}

	crashed := &runner.Result{
		Summary:  diag.NewSummary(),
		Failures: []runner.Failure{{Path: "a.c", Reason: "boom"}},
	}
	if !crashed.HasFailures() {
		t.Error("failures should count")
	}
}

func TestResult_ErrorsByDir(t *testing.T) {
	t.Parallel()

	summary, err := diag.AggregateReader(strings.NewReader(strings.Join([]string{
		"src/a.c: Error!",
		"Error: INVALID_HEADER (line: 1, col: 1): Missing or invalid 42 header",
		"src/b.c: OK!",
		"src/c.c: Error!",
		"Error: TOO_MANY_FUNCS (line: 40, col: 1): Too many functions in file",
		"main.c: Error!",
		"Error: EMPTY_LINE_FILE_START (line: 1, col: 1): Empty line at start of file",
	}, "\n")))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	result := &runner.Result{
		Summary:    summary,
		Failures:   []runner.Failure{{Path: "lib/x.c", Reason: "crash"}},
		WorkingDir: "/work",
	}

	stats := result.ErrorsByDir()
	want := map[string]int{"/work/src": 2, "/work": 1, "/work/lib": 1}
	if len(stats) != len(want) {
		t.Fatalf("got %v, want %v", stats, want)
	}
	for dir, n := range want {
		if stats[dir] != n {
			t.Errorf("stats[%s] = %d, want %d", dir, stats[dir], n)
		}
	}

	if got := runner.SortedDirs(stats); !slices.Equal(got, []string{"/work", "/work/lib", "/work/src"}) {
		t.Errorf("SortedDirs() = %v", got)
	}
}
