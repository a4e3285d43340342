package tester

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoRecord is returned by Clean when there is nothing to clean.
var ErrNoRecord = errors.New("no " + RecordFile + " record found")

// CleanResult lists what Clean did.
type CleanResult struct {
	// Deleted holds absolute paths that were removed.
	Deleted []string

	// Missing holds absolute paths listed in the record that no longer exist.
	Missing []string
}

// Clean removes every entry listed in dir's RecordFile in reverse name
// order, and the record itself last. Entries that would escape dir are refused.
func Clean(dir string) (*CleanResult, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	recordPath := filepath.Join(dir, RecordFile)
	f, err := os.Open(recordPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	scanErr := scanner.Err()
	f.Close()
	if scanErr != nil {
		return nil, fmt.Errorf("read %s: %w", RecordFile, scanErr)
	}

	names = slices.DeleteFunc(names, func(name string) bool { return name == RecordFile })
	slices.Sort(names)
	slices.Reverse(names)
	names = append(names, RecordFile)

	result := &CleanResult{}
	for _, name := range names {
		if !filepath.IsLocal(name) {
			return result, fmt.Errorf("refusing to delete %q outside %s", name, dir)
		}

		path := filepath.Join(dir, name)
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			result.Missing = append(result.Missing, path)
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			return result, fmt.Errorf("delete %s: %w", path, err)
		}
		result.Deleted = append(result.Deleted, path)
	}

	return result, nil
}
