package astindex

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tmoore/astindex/internal/enumerate"
	"github.com/tmoore/astindex/internal/extract"
	"github.com/tmoore/astindex/internal/lockfile"
	"github.com/tmoore/astindex/internal/store"
)

const (
	// defaultChunkSize is the number of files committed per transaction.
	defaultChunkSize = 200
	// defaultWorkers caps the extraction pool. Extraction is mostly
	// regex and tree-sitter CPU work; past 8 workers SQLite commit time
	// dominates.
	defaultWorkers = 8
	// defaultMaxFileSize skips generated monsters and bundled assets.
	defaultMaxFileSize = 2 << 20
	// defaultLockTimeout bounds how long a writer waits for a concurrent
	// rebuild or update to finish.
	defaultLockTimeout = 5 * time.Second
)

// Engine orchestrates the indexing pipeline: enumeration, change detection,
// parallel extraction, chunked commits and module graph construction.
type Engine struct {
	store *store.Store

	workers     int
	chunkSize   int
	maxFileSize int64
	lockTimeout time.Duration
	lockPath    string

	excludes []string
	noIgnore bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the extraction pool size. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithExcludes adds glob patterns (doublestar syntax, matched against
// root-relative paths) that enumeration will skip.
func WithExcludes(patterns ...string) Option {
	return func(e *Engine) {
		e.excludes = append(e.excludes, patterns...)
	}
}

// WithNoIgnore disables .gitignore handling so build output gets indexed.
func WithNoIgnore() Option {
	return func(e *Engine) {
		e.noIgnore = true
	}
}

// WithLockTimeout sets how long Rebuild and Update wait for the index lock
// held by another process.
func WithLockTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.lockTimeout = d
	}
}

// New creates an Engine backed by a SQLite database at dbPath, creating the
// schema if needed. The lock file guarding writers lives next to the
// database.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("astindex: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("astindex: migrate: %w", err)
	}

	e := &Engine{
		store:       s,
		workers:     defaultWorkers,
		chunkSize:   defaultChunkSize,
		maxFileSize: defaultMaxFileSize,
		lockTimeout: defaultLockTimeout,
		lockPath:    dbPath + ".lock",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store}
}

// Report summarizes one indexing run.
type Report struct {
	Indexed        int         `json:"indexed"`
	SkippedLarge   int         `json:"skipped_large"`
	Failed         []FileError `json:"failed,omitempty"`
	Modules        int         `json:"modules"`
	ModuleDeps     int         `json:"module_deps"`
	TransitiveDeps int         `json:"transitive_deps"`
}

// FileError records an extraction failure that did not abort the run.
type FileError struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

// Rebuild drops all derived data and re-indexes root plus any configured
// extra roots from scratch. Extra roots survive the wipe.
func (e *Engine) Rebuild(ctx context.Context, root string) (*Report, error) {
	lock, err := lockfile.Acquire(e.lockPath, e.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	extraRoots, err := e.store.ExtraRoots()
	if err != nil {
		return nil, fmt.Errorf("rebuild: load extra roots: %w", err)
	}
	if err := e.store.Clear(); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}
	if len(extraRoots) > 0 {
		if err := e.store.SetExtraRoots(extraRoots); err != nil {
			return nil, fmt.Errorf("rebuild: restore extra roots: %w", err)
		}
	}

	walks, err := e.enumerateAll(root, extraRoots)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, w := range walks {
		if err := e.indexFiles(ctx, w.walk.Sources, report); err != nil {
			return nil, err
		}
	}
	if err := e.indexModules(walks, report); err != nil {
		return nil, err
	}
	return report, nil
}

// rootWalk pairs an enumerated root with its walk result. Module discovery
// needs the root to derive dotted module names from directory paths.
type rootWalk struct {
	root string
	walk *enumerate.Walk
}

func (e *Engine) enumerateAll(root string, extraRoots []string) ([]rootWalk, error) {
	roots := append([]string{root}, extraRoots...)
	walks := make([]rootWalk, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolve root %s: %w", r, err)
		}
		w, err := enumerate.Enumerate(abs, enumerate.Options{
			Eligible: extract.Supported,
			Excludes: e.excludes,
			NoIgnore: e.noIgnore,
		})
		if err != nil {
			return nil, fmt.Errorf("enumerate %s: %w", abs, err)
		}
		walks = append(walks, rootWalk{root: abs, walk: w})
	}
	return walks, nil
}

// AddRoot registers an extra source root that Rebuild and Update will
// enumerate in addition to the primary root.
func (e *Engine) AddRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}
	return e.store.AddExtraRoot(abs)
}

// RemoveRoot unregisters an extra source root. It reports whether the root
// was present.
func (e *Engine) RemoveRoot(root string) (bool, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return false, fmt.Errorf("resolve root: %w", err)
	}
	return e.store.RemoveExtraRoot(abs)
}

// Roots lists the configured extra source roots.
func (e *Engine) Roots() ([]string, error) {
	return e.store.ExtraRoots()
}
