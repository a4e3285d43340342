package tester

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/normino/normino/internal/logging"
	"github.com/normino/normino/pkg/fsutil"
)

// RecordFile lists everything a download placed in the destination
// directory, itself included. Clean reads it back.
const RecordFile = "downloaded.tests"

// Mode bits applied to every top-level downloaded entry.
const entryMode os.FileMode = 0o777

// maxDepth bounds recursion into nested listings.
const maxDepth = 16

// ErrConflict is returned when a downloaded entry already exists in the
// destination directory.
var ErrConflict = errors.New("destination already contains downloaded entries")

// Download is the outcome of fetching one tester.
type Download struct {
	// Name is the tester name.
	Name string

	// Dir is the directory the entries were moved into.
	Dir string

	// Entries are the top-level names placed in Dir, sorted, RecordFile
	// included.
	Entries []string
}

// Download fetches the tester published under name and moves its top-level
// entries into destDir. The files are first staged in a temporary directory
// inside destDir so nothing is moved unless every file arrived.
func (c *Client) Download(ctx context.Context, name, destDir string) (*Download, error) {
	logger := logging.FromContext(ctx)

	destDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(c.baseURL + "/" + url.PathEscape(name) + "/")
	if err != nil {
		return nil, fmt.Errorf("tester url: %w", err)
	}

	staging, err := os.MkdirTemp(destDir, ".normino-download-*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	logger.Debug("downloading tester", logging.FieldURL, base.String())

	if err := c.fetchDir(ctx, base, staging, 0); err != nil {
		return nil, fmt.Errorf("download %s: %w", name, err)
	}

	dirEntries, err := os.ReadDir(staging)
	if err != nil {
		return nil, err
	}
	if len(dirEntries) == 0 {
		return nil, fmt.Errorf("download %s: tester is empty", name)
	}

	entries := []string{RecordFile}
	for _, e := range dirEntries {
		if e.Name() != RecordFile {
			entries = append(entries, e.Name())
		}
	}
	slices.Sort(entries)

	var conflicts []string
	for _, e := range entries {
		if _, err := os.Lstat(filepath.Join(destDir, e)); err == nil {
			conflicts = append(conflicts, e)
		}
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrConflict, strings.Join(conflicts, ", "))
	}

	record := strings.Join(entries, "\n") + "\n"
	if err := fsutil.WriteAtomic(ctx, filepath.Join(staging, RecordFile), []byte(record), 0); err != nil {
		return nil, fmt.Errorf("write %s: %w", RecordFile, err)
	}

	for _, e := range entries {
		dest := filepath.Join(destDir, e)
		if err := os.Rename(filepath.Join(staging, e), dest); err != nil {
			return nil, fmt.Errorf("move %s: %w", e, err)
		}
		if err := os.Chmod(dest, entryMode); err != nil {
			return nil, fmt.Errorf("chmod %s: %w", e, err)
		}
		logger.Debug("placed", logging.FieldDest, dest)
	}

	return &Download{Name: name, Dir: destDir, Entries: entries}, nil
}

func (c *Client) fetchDir(ctx context.Context, dirURL *url.URL, localDir string, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%s: listing nested too deeply", dirURL)
	}

	body, err := c.get(ctx, dirURL.String())
	if err != nil {
		return err
	}

	for _, e := range parseListing(dirURL, body) {
		target := filepath.Join(localDir, e.name)

		if e.dir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			if err := c.fetchDir(ctx, e.url, target, depth+1); err != nil {
				return err
			}
			continue
		}

		data, err := c.get(ctx, e.url.String())
		if err != nil {
			return err
		}
		if err := fsutil.WriteAtomic(ctx, target, data, 0); err != nil {
			return err
		}
	}

	return nil
}
