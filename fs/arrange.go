package fs

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// ArrangeResult reports the outcome of moving one file.
type ArrangeResult struct {
	Path        string
	Destination string
	Err         error
}

// Arranger sorts the files of a directory into ISO week folders by their
// modification time.
type Arranger struct {
	dir string
}

// NewArranger creates an Arranger for the regular files directly in dir.
func NewArranger(dir string) *Arranger {
	return &Arranger{dir: dir}
}

// Inspect groups the files by modification date (YYYY-MM-DD) without moving
// anything.
func (a *Arranger) Inspect(ctx context.Context) (map[string][]string, error) {
	entries, err := a.files(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]string)
	for _, e := range entries {
		day := e.modTime.Format(time.DateOnly)
		groups[day] = append(groups[day], e.path)
	}
	return groups, nil
}

// Organize moves every file into <dir>/<isoYear>/W<isoWeek>. Existing week
// directories are reused. A failed move is reported in its result and does
// not stop the others.
func (a *Arranger) Organize(ctx context.Context) ([]ArrangeResult, error) {
	entries, err := a.files(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ArrangeResult, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		year, week := e.modTime.ISOWeek()
		dest := filepath.Join(WeekDir(a.dir, year, week), filepath.Base(e.path))
		res := ArrangeResult{Path: e.path, Destination: dest}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			res.Err = err
		} else if err := os.Rename(e.path, dest); err != nil {
			res.Err = err
		}
		results = append(results, res)
	}
	return results, nil
}

type fileEntry struct {
	path    string
	modTime time.Time
}

func (a *Arranger) files(ctx context.Context) ([]fileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, err
	}

	var entries []fileEntry
	for _, d := range dirEntries {
		if !d.Type().IsRegular() {
			continue
		}
		info, err := d.Info()
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntry{
			path:    filepath.Join(a.dir, d.Name()),
			modTime: info.ModTime(),
		})
	}

	slices.SortFunc(entries, func(x, y fileEntry) int {
		return x.modTime.Compare(y.modTime)
	})
	return entries, nil
}
