package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/normino/normino/pkg/diag"
)

// Runner discovers files and checks them with norminette in batches.
type Runner struct {
	// Cmd starts the linter processes.
	Cmd CommandRunner
}

// New creates a Runner using cmd, or ExecRunner when cmd is nil.
func New(cmd CommandRunner) *Runner {
	if cmd == nil {
		cmd = &ExecRunner{}
	}
	return &Runner{Cmd: cmd}
}

// batchOutcome is what one linter process produced.
type batchOutcome struct {
	index    int
	summary  *diag.Summary
	failures []Failure
	err      error
}

// Run discovers files under opts.Paths and checks them.
//
// Files are split into batches of opts.BatchSize and each batch is handed to
// one norminette process; up to opts.Jobs processes run at once. Each
// process's stdout is folded by its own diag.Aggregator and the batch
// summaries are merged in batch order, so the result does not depend on
// scheduling.
//
// A missing linter binary or cancellation of ctx aborts the run and no
// partial result is returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	opts.WorkingDir = workDir

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Summary:         diag.NewSummary(),
		FilesDiscovered: len(files),
		WorkingDir:      workDir,
	}

	if len(files) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	batches := chunk(DisplayPaths(workDir, files), opts.effectiveBatchSize())
	jobs := min(opts.effectiveJobs(), len(batches))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan int)
	outCh := make(chan batchOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workDir, batches, opts, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for idx := range batches {
			select {
			case <-ctx.Done():
				return
			case workCh <- idx:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; index the outcomes so the merge below is
	// deterministic.
	outcomes := make(map[int]batchOutcome, len(batches))
	var fatal error

	for outcome := range outCh {
		if outcome.err != nil && fatal == nil {
			fatal = outcome.err
			cancel()
		}
		outcomes[outcome.index] = outcome
	}

	if fatal != nil {
		return nil, fatal
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	for idx := range batches {
		outcome, ok := outcomes[idx]
		if !ok {
			continue
		}
		result.Summary.Merge(outcome.summary)
		result.Failures = append(result.Failures, outcome.failures...)
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Path < result.Failures[j].Path
	})

	result.Duration = time.Since(start)
	return result, nil
}

// worker checks batches from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workDir string,
	batches [][]string,
	opts Options,
	workCh <-chan int,
	outCh chan<- batchOutcome,
) {
	for idx := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.checkBatch(ctx, workDir, batches[idx], opts)
		outcome.index = idx

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// checkBatch runs one norminette process over batch.
func (r *Runner) checkBatch(ctx context.Context, workDir string, batch []string, opts Options) batchOutcome {
	timeout := opts.batchTimeout(len(batch))
	batchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	agg := diag.NewAggregator()
	args := make([]string, 0, len(opts.LinterArgs)+len(batch))
	args = append(args, opts.LinterArgs...)
	args = append(args, batch...)

	status, err := r.Cmd.Run(batchCtx, workDir, opts.effectiveLinter(), args, agg.Feed)
	summary := agg.Summary()
	outcome := batchOutcome{summary: summary}

	switch {
	case err != nil && errors.Is(err, ErrLinterNotFound):
		outcome.err = err
	case err != nil && ctx.Err() != nil:
		outcome.err = ctx.Err()
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		outcome.failures = unreported(batch, summary, fmt.Sprintf("checking timed out after %s", timeout))
	case err != nil:
		outcome.failures = unreported(batch, summary, err.Error())
	case status.Code != 0 && status.Stderr != "":
		outcome.failures = unreported(batch, summary, status.Stderr)
	default:
		outcome.failures = unreported(batch, summary, "no output from norminette")
	}

	return outcome
}

// unreported returns a failure for every file in batch missing from summary.
func unreported(batch []string, summary *diag.Summary, reason string) []Failure {
	var failures []Failure
	for _, path := range batch {
		if _, ok := summary.Report(path); ok {
			continue
		}
		failures = append(failures, Failure{Path: path, Reason: reason})
	}
	return failures
}

// DisplayPaths converts absolute paths to paths relative to workDir where
// they live below it. Norminette echoes these back in its markers.
func DisplayPaths(workDir string, files []string) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(workDir, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			out = append(out, file)
			continue
		}
		out = append(out, rel)
	}
	return out
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
