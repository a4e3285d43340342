package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds C sources and headers matching opts under the working
// directory. Paths may be files, directories or shell patterns ("src/*.c").
// It returns a deterministically sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	paths, err := expandPatterns(workDir, opts.effectivePaths())
	if err != nil {
		return nil, err
	}

	d := &discovery{
		workDir:        workDir,
		extensions:     opts.effectiveExtensions(),
		excludes:       relativeExcludes(workDir, opts.ExcludeGlobs),
		followSymlinks: opts.FollowSymlinks,
		seen:           make(map[string]struct{}),
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			// Named files skip the hidden check: "normino .x.c" means it.
			d.add(abs)
			continue
		}
		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// discovery accumulates the files of one Discover call.
type discovery struct {
	workDir        string
	extensions     []string
	excludes       []string
	followSymlinks bool

	seen  map[string]struct{}
	files []string
}

// add records file if it is a source that is not excluded.
func (d *discovery) add(file string) {
	if !d.isSource(file) || d.excluded(file) {
		return
	}
	if _, dup := d.seen[file]; dup {
		return
	}
	d.seen[file] = struct{}{}
	d.files = append(d.files, file)
}

func (d *discovery) isSource(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	return slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// walk adds every source below root. Hidden entries and excluded
// directories are pruned. Directory symlinks are followed only on request,
// and then through their target so WalkDir never loops on the link.
func (d *discovery) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.excluded(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // dangling links are not sources
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable target
			}
			if info.IsDir() {
				if !d.followSymlinks {
					return nil
				}
				return d.walk(ctx, target)
			}
		}

		d.add(p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// excluded reports whether p, or a directory above it, matches an exclude
// pattern. Patterns are relative to the working directory.
func (d *discovery) excluded(p string) bool {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}
	segs := strings.Split(filepath.ToSlash(rel), "/")

	return slices.ContainsFunc(d.excludes, func(pattern string) bool {
		return matchExclude(pattern, segs)
	})
}

// matchExclude matches pattern against the path segments segs. A pattern
// without a slash ("libft", "tmp_*.c") matches any single segment. Other
// patterns match a leading run of segments, so "ex00/tests" or "tests/**"
// cover everything below that directory. "**" spans any number of segments.
func matchExclude(pattern string, segs []string) bool {
	pat := strings.Split(filepath.ToSlash(pattern), "/")

	if len(pat) == 1 && pat[0] != "**" {
		return slices.ContainsFunc(segs, func(seg string) bool {
			ok, _ := path.Match(pat[0], seg)
			return ok
		})
	}

	for n := len(segs); n > 0; n-- {
		if matchSegments(pat, segs[:n]) {
			return true
		}
	}
	return false
}

func matchSegments(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			for i := 0; i <= len(segs); i++ {
				if matchSegments(pat[1:], segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

// expandPatterns replaces shell patterns with their matches. A pattern that
// matches nothing is kept so the stat in Discover reports it.
func expandPatterns(workDir string, paths []string) ([]string, error) {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.ContainsAny(p, "*?[") {
			expanded = append(expanded, p)
			continue
		}

		pattern := p
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(workDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand pattern %s: %w", p, err)
		}
		if len(matches) == 0 {
			expanded = append(expanded, p)
			continue
		}
		expanded = append(expanded, matches...)
	}
	return expanded, nil
}

// relativeExcludes rewrites absolute exclude patterns relative to workDir so
// they match the same way as relative ones.
func relativeExcludes(workDir string, patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if filepath.IsAbs(pattern) {
			if rel, err := filepath.Rel(workDir, pattern); err == nil {
				pattern = rel
			}
		}
		out = append(out, filepath.Clean(pattern))
	}
	return out
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
