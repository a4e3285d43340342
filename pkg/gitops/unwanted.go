package gitops

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Reasons a file is flagged as unwanted.
const (
	ReasonHidden     = "hidden"
	ReasonObject     = "object file"
	ReasonArchive    = "static library"
	ReasonBackup     = "editor backup"
	ReasonSwap       = "swap file"
	ReasonExecutable = "executable"
	ReasonBinary     = "binary"
)

// sniffSize is how much of a file is read to decide whether it is binary.
const sniffSize = 8000

// Unwanted is a file that usually should not be pushed to a 42 repository.
type Unwanted struct {
	// Path is absolute.
	Path   string
	Reason string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	sourceExts = []string{".c", ".h", ".sh"}
	swapExts   = []string{".swp", ".swo", ".swn"}
	keptNames  = []string{".git", ".gitignore", "Makefile"}
)

// FindUnwanted walks root and returns files that look like build output,
// editor leftovers or hidden files. The .git directory, .gitignore and
// Makefile are never reported. Hidden directories are reported once and not
// descended into. Results are sorted by path.
func FindUnwanted(ctx context.Context, root string) ([]Unwanted, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var found []Unwanted

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if slices.Contains(keptNames, name) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if enry.IsDotFile(path) {
				found = append(found, Unwanted{Path: path, Reason: ReasonHidden})
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if reason := classify(path, d); reason != "" {
			found = append(found, Unwanted{Path: path, Reason: reason})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b Unwanted) int {
		return strings.Compare(a.Path, b.Path)
	})

	return found, nil
}

// classify returns why a regular file is unwanted, or "" if it is fine.
func classify(path string, d fs.DirEntry) string {
	name := d.Name()
	ext := filepath.Ext(name)

	switch {
	case enry.IsDotFile(path):
		return ReasonHidden
	case ext == ".o":
		return ReasonObject
	case ext == ".a":
		return ReasonArchive
	case strings.HasSuffix(name, "~"):
		return ReasonBackup
	case slices.Contains(swapExts, ext):
		return ReasonSwap
	case slices.Contains(sourceExts, ext):
		return ""
	}

	info, err := d.Info()
	if err != nil {
		return ""
	}
	if info.Mode().Perm()&0o111 != 0 {
		return ReasonExecutable
	}
	if isBinary(path) {
		return ReasonBinary
	}

	return ""
}

func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}

	return enry.IsBinary(buf[:n])
}
