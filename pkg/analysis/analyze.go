// Package analysis computes per-rule and per-file views of a lint run.
package analysis

import (
	"cmp"
	"slices"
	"time"

	"github.com/normino/normino/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// unknownRule labels diagnostics whose detail line had no rule token.
const unknownRule = "UNKNOWN"

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

// newAnalysisContext creates a new analysis context.
func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

// getOrCreateFileAnalysis returns existing or creates new FileAnalysis.
func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

// getOrCreateRuleAnalysis returns existing or creates new RuleAnalysis.
func (ctx *analysisContext) getOrCreateRuleAnalysis(rule string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[rule]; !ok {
		ctx.ruleMap[rule] = &RuleAnalysis{Rule: rule}
		ctx.ruleFiles[rule] = make(map[string]bool)
	}
	return ctx.ruleMap[rule]
}

// buildByRule constructs the ByRule slice from accumulated data.
func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for rule, ra := range ctx.ruleMap {
		for f := range ctx.ruleFiles[rule] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// buildByFile constructs the ByFile slice from accumulated data.
func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		for r := range ctx.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through diagnostics to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil || result.Summary == nil {
		return report
	}

	summary := result.Summary
	report.Totals = Totals{
		Files:       summary.TotalFiles(),
		OK:          summary.OKCount(),
		WithErrors:  summary.ErrorCount(),
		Failed:      len(result.Failures),
		Diagnostics: summary.DiagnosticCount(),
		Notices:     summary.NoticeCount(),
		Unconfirmed: len(summary.Unconfirmed()),
		DurationMS:  result.Duration.Milliseconds(),
	}

	ctx := newAnalysisContext()

	for _, file := range summary.Reports() {
		if file.HasNotices() {
			report.Totals.WithNotices++
		}
		if len(file.Diagnostics) == 0 {
			if !file.HasNotices() {
				report.Totals.Correct++
			}
			continue
		}

		fa := ctx.getOrCreateFileAnalysis(file.FilePath)

		for _, d := range file.Diagnostics {
			rule := d.Rule
			if d.Malformed() {
				rule = unknownRule
			}

			fa.Issues++
			ctx.fileRules[file.FilePath][rule] = true

			ra := ctx.getOrCreateRuleAnalysis(rule)
			ra.Issues++
			ctx.ruleFiles[rule][file.FilePath] = true
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		if sortBy == SortByAlpha {
			// Alphabetical sorting is always ascending (A-Z)
			return cmp.Compare(left.Rule, right.Rule)
		}
		result := cmp.Compare(left.Issues, right.Issues)
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Rule, right.Rule)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		if sortBy == SortByAlpha {
			return cmp.Compare(left.Path, right.Path)
		}
		result := cmp.Compare(left.Issues, right.Issues)
		if desc {
			result = -result
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
