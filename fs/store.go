package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/rundown"
)

// Ensure Store implements rundown.ExportStore at compile time.
var _ rundown.ExportStore = (*Store)(nil)

// Store writes cleaned exports to baseDir/<year>/<canonical name>.xml.
// Each file is written to a temporary sibling and renamed into place.
type Store struct {
	baseDir string
}

// NewStore creates a new Store that writes to the given base directory.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Path returns the destination of a cleaned export.
func (s *Store) Path(name *rundown.RundownName) string {
	return filepath.Join(s.baseDir, name.Year, name.Canonical+".xml")
}

// Save writes the content read from r atomically.
func (s *Store) Save(ctx context.Context, name *rundown.RundownName, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := s.Path(name)

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
