package astindex

import (
	"context"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/tmoore/astindex/internal/enumerate"
	"github.com/tmoore/astindex/internal/lockfile"
)

// UpdateReport summarizes an incremental update.
type UpdateReport struct {
	Added     int `json:"added"`
	Modified  int `json:"modified"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Report    `json:"indexing"`
}

// Update re-indexes only what changed since the last run. Change detection
// compares (mtime, size) against the stored rows; files that were touched
// but whose content hash is identical are reclassified as unchanged, which
// keeps branch switches cheap. Removed files are deleted from the index
// with all their derived rows.
func (e *Engine) Update(ctx context.Context, root string) (*UpdateReport, error) {
	lock, err := lockfile.Acquire(e.lockPath, e.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	extraRoots, err := e.store.ExtraRoots()
	if err != nil {
		return nil, fmt.Errorf("update: load extra roots: %w", err)
	}
	walks, err := e.enumerateAll(root, extraRoots)
	if err != nil {
		return nil, err
	}

	stored, err := e.store.AllFiles()
	if err != nil {
		return nil, fmt.Errorf("update: list files: %w", err)
	}
	byPath := make(map[string]*File, len(stored))
	for _, f := range stored {
		byPath[f.Path] = f
	}

	report := &UpdateReport{}
	var pending []enumerate.FileMeta
	seen := make(map[string]bool)
	for _, w := range walks {
		for _, fm := range w.walk.Sources {
			seen[fm.Path] = true
			old, ok := byPath[fm.Path]
			switch {
			case !ok:
				report.Added++
				pending = append(pending, fm)
			case old.Mtime != fm.Mtime || old.Size != fm.Size:
				if e.contentUnchanged(fm, old.Hash) {
					// Touched but identical. Refresh the metadata so the
					// next update does not re-hash it.
					old.Mtime, old.Size = fm.Mtime, fm.Size
					if _, err := e.store.UpsertFile(old); err != nil {
						return nil, fmt.Errorf("update: refresh %s: %w", fm.Path, err)
					}
					report.Unchanged++
				} else {
					report.Modified++
					pending = append(pending, fm)
				}
			default:
				report.Unchanged++
			}
		}
	}

	for path := range byPath {
		if !seen[path] {
			if err := e.store.DeleteFileByPath(path); err != nil {
				return nil, fmt.Errorf("update: %w", err)
			}
			report.Removed++
		}
	}

	if err := e.indexFiles(ctx, pending, &report.Report); err != nil {
		return nil, err
	}
	// Module descriptors are few; reparse the graph on every update rather
	// than diffing them.
	if err := e.indexModules(walks, &report.Report); err != nil {
		return nil, err
	}
	return report, nil
}

// contentUnchanged reports whether the file at fm still hashes to oldHash.
// Any read error counts as changed so the extraction path surfaces it.
func (e *Engine) contentUnchanged(fm enumerate.FileMeta, oldHash string) bool {
	if oldHash == "" || fm.Size > e.maxFileSize {
		return false
	}
	content, err := os.ReadFile(fm.Path)
	if err != nil {
		return false
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(content)) == oldHash
}
