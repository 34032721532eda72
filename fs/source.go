// Package fs provides file-based access to rundown exports.
package fs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/rundown"
)

// Ensure Source implements rundown.ExportSource at compile time.
var _ rundown.ExportSource = (*Source)(nil)

// Source lists XML exports found recursively under a directory.
type Source struct {
	dir string
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// WeekDir returns the directory holding the exports of an ISO week,
// e.g. base/2023/W03.
func WeekDir(base string, year, week int) string {
	return filepath.Join(base, fmt.Sprint(year), fmt.Sprintf("W%02d", week))
}

// List returns the paths of all *.xml files under the directory, sorted.
// Returns ENOTFOUND if the directory does not exist.
func (s *Source) List(ctx context.Context) ([]string, error) {
	info, err := os.Stat(s.dir)
	if os.IsNotExist(err) {
		return nil, rundown.Errorf(rundown.ENOTFOUND, "source directory %q not found", s.dir)
	} else if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, rundown.Errorf(rundown.EINVALID, "source %q is not a directory", s.dir)
	}

	var paths []string
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	return paths, nil
}

// Open opens an export for reading.
func (s *Source) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
