package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the index.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}


// Migrate creates all tables and, when the driver is built with FTS5
// support (the sqlite_fts5 build tag), the full-text index and its sync
// triggers. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if ftsDDL != "" {
		if _, err := s.db.Exec(ftsDDL); err != nil {
			return fmt.Errorf("migrate fts: %w", err)
		}
	}
	return nil
}

const schemaDDL = `
-- Extraction tables

CREATE TABLE IF NOT EXISTS files (
  id        INTEGER PRIMARY KEY,
  path      TEXT NOT NULL UNIQUE,
  language  TEXT NOT NULL,
  mtime     INTEGER NOT NULL,
  size      INTEGER NOT NULL,
  hash      TEXT
);

CREATE TABLE IF NOT EXISTS symbols (
  id        INTEGER PRIMARY KEY,
  file_id   INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name      TEXT NOT NULL,
  kind      TEXT NOT NULL,
  line      INTEGER NOT NULL,
  signature TEXT
);

CREATE TABLE IF NOT EXISTS inheritance (
  id          INTEGER PRIMARY KEY,
  child_id    INTEGER NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
  parent_name TEXT NOT NULL,
  kind        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS refs (
  id      INTEGER PRIMARY KEY,
  file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name    TEXT NOT NULL,
  line    INTEGER NOT NULL,
  context TEXT
);

-- Module graph tables

CREATE TABLE IF NOT EXISTS modules (
  id         INTEGER PRIMARY KEY,
  name       TEXT NOT NULL UNIQUE,
  path       TEXT NOT NULL,
  descriptor TEXT
);

CREATE TABLE IF NOT EXISTS module_deps (
  id        INTEGER PRIMARY KEY,
  module_id INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
  dep_name  TEXT NOT NULL,
  kind      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transitive_deps (
  id        INTEGER PRIMARY KEY,
  module_id INTEGER NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
  dep_name  TEXT NOT NULL,
  depth     INTEGER NOT NULL,
  path      TEXT NOT NULL
);

-- Platform usage tables

CREATE TABLE IF NOT EXISTS xml_usages (
  id         INTEGER PRIMARY KEY,
  file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  class_name TEXT NOT NULL,
  line       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS resources (
  id       INTEGER PRIMARY KEY,
  file_id  INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  res_type TEXT NOT NULL,
  name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resource_usages (
  id       INTEGER PRIMARY KEY,
  file_id  INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  res_type TEXT NOT NULL,
  name     TEXT NOT NULL,
  line     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

-- Indexes

CREATE INDEX IF NOT EXISTS idx_files_language ON files(language);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);
CREATE INDEX IF NOT EXISTS idx_inheritance_child ON inheritance(child_id);
CREATE INDEX IF NOT EXISTS idx_inheritance_parent ON inheritance(parent_name);
CREATE INDEX IF NOT EXISTS idx_refs_file ON refs(file_id);
CREATE INDEX IF NOT EXISTS idx_refs_name ON refs(name);
CREATE INDEX IF NOT EXISTS idx_module_deps_module ON module_deps(module_id);
CREATE INDEX IF NOT EXISTS idx_module_deps_dep ON module_deps(dep_name);
CREATE INDEX IF NOT EXISTS idx_transitive_module ON transitive_deps(module_id);
CREATE INDEX IF NOT EXISTS idx_transitive_dep ON transitive_deps(dep_name);
CREATE INDEX IF NOT EXISTS idx_xml_usages_class ON xml_usages(class_name);
CREATE INDEX IF NOT EXISTS idx_resources_name ON resources(res_type, name);
CREATE INDEX IF NOT EXISTS idx_resource_usages_name ON resource_usages(res_type, name);
`

// Clear drops every indexed row. FK cascades take the file-owned and
// module-owned tables with their parents. Metadata is cleared too; callers
// that need to survive a rebuild (extra roots) save and restore it.
func (s *Store) Clear() error {
	for _, table := range []string{"files", "modules", "metadata"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// DeleteFileByPath removes a file row; symbols, refs, inheritance edges and
// platform usage rows go with it via FK cascade.
func (s *Store) DeleteFileByPath(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

// Stats returns row counts for the main tables.
func (s *Store) Stats() (*Stats, error) {
	st := &Stats{}
	for _, c := range []struct {
		table string
		dst   *int64
	}{
		{"files", &st.Files},
		{"symbols", &st.Symbols},
		{"refs", &st.Refs},
		{"modules", &st.Modules},
		{"module_deps", &st.ModuleDeps},
		{"transitive_deps", &st.TransitiveDeps},
		{"xml_usages", &st.XMLUsages},
		{"resources", &st.Resources},
		{"resource_usages", &st.ResourceUsages},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: count %s: %w", c.table, err)
		}
	}
	return st, nil
}
