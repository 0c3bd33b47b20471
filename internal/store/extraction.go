package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

// UpsertFile inserts or replaces the file row for f.Path and returns its id.
func (s *Store) UpsertFile(f *File) (int64, error) {
	return upsertFileTx(s.db, f)
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, language, mtime, size, hash FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Mtime, &f.Size, &f.Hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// AllFiles returns every stored file row, keyed for incremental diffing.
func (s *Store) AllFiles() ([]*File, error) {
	rows, err := s.db.Query("SELECT id, path, language, mtime, size, hash FROM files")
	if err != nil {
		return nil, fmt.Errorf("all files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(&f.ID, &f.Path, &f.Language, &f.Mtime, &f.Size, &f.Hash); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// SearchFiles returns file paths containing the query substring.
func (s *Store) SearchFiles(query string, limit int) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT path FROM files WHERE path LIKE ? ORDER BY length(path) LIMIT ?",
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// --- Symbol operations ---

func (s *Store) InsertSymbol(sym *Symbol) (int64, error) {
	return insertSymbolTx(s.db, sym)
}

const symbolInfoCols = `s.id, s.name, s.kind, f.path, s.line, COALESCE(s.signature, '')`

func (s *Store) querySymbolInfos(query string, args ...any) ([]*SymbolInfo, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var infos []*SymbolInfo
	for rows.Next() {
		si := &SymbolInfo{}
		if err := rows.Scan(&si.ID, &si.Name, &si.Kind, &si.File, &si.Line, &si.Signature); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		infos = append(infos, si)
	}
	return infos, rows.Err()
}

// SymbolsByName finds symbols with an exact name match, optionally filtered
// by kind. If nothing matches exactly it falls back to a prefix match,
// shortest names first.
func (s *Store) SymbolsByName(name, kind string, limit int) ([]*SymbolInfo, error) {
	where := "s.name = ?"
	args := []any{name}
	if kind != "" {
		where += " AND s.kind = ?"
		args = append(args, kind)
	}
	args = append(args, limit)
	infos, err := s.querySymbolInfos(
		"SELECT "+symbolInfoCols+" FROM symbols s JOIN files f ON s.file_id = f.id WHERE "+where+" LIMIT ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	if len(infos) > 0 {
		return infos, nil
	}

	where = "s.name LIKE ?"
	args = []any{name + "%"}
	if kind != "" {
		where += " AND s.kind = ?"
		args = append(args, kind)
	}
	args = append(args, limit)
	infos, err = s.querySymbolInfos(
		"SELECT "+symbolInfoCols+" FROM symbols s JOIN files f ON s.file_id = f.id WHERE "+where+
			" ORDER BY length(s.name) LIMIT ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("symbols by name prefix: %w", err)
	}
	return infos, nil
}

// SearchSymbols implements the fuzzy cascade: exact matches rank first, then
// prefix matches, then contains matches, shorter names before longer ones.
// With fuzzy=false only exact matches are returned.
func (s *Store) SearchSymbols(query string, fuzzy bool, limit int) ([]*SymbolInfo, error) {
	if !fuzzy {
		infos, err := s.querySymbolInfos(
			"SELECT "+symbolInfoCols+" FROM symbols s JOIN files f ON s.file_id = f.id"+
				" WHERE s.name = ? ORDER BY s.kind, f.path LIMIT ?",
			query, limit)
		if err != nil {
			return nil, fmt.Errorf("search symbols: %w", err)
		}
		return infos, nil
	}
	infos, err := s.querySymbolInfos(
		"SELECT "+symbolInfoCols+` FROM symbols s JOIN files f ON s.file_id = f.id
		 WHERE s.name LIKE ?
		 ORDER BY CASE
		   WHEN s.name = ? THEN 0
		   WHEN s.name LIKE ? THEN 1
		   ELSE 2
		 END, length(s.name), s.name
		 LIMIT ?`,
		"%"+query+"%", query, query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search symbols fuzzy: %w", err)
	}
	return infos, nil
}

// FindImplementations finds symbols whose inheritance edges point at
// parentName. Exact parent matches rank above suffix matches (query
// "Service" ranking a parent "api.Service") above substring matches.
func (s *Store) FindImplementations(parentName string, limit int) ([]*SymbolInfo, error) {
	infos, err := s.querySymbolInfos(
		"SELECT DISTINCT "+symbolInfoCols+` FROM inheritance i
		 JOIN symbols s ON i.child_id = s.id
		 JOIN files f ON s.file_id = f.id
		 WHERE i.parent_name LIKE ?
		 ORDER BY CASE
		   WHEN i.parent_name = ? THEN 0
		   WHEN i.parent_name LIKE ? THEN 1
		   ELSE 2
		 END, s.name
		 LIMIT ?`,
		"%"+parentName+"%", parentName, "%."+parentName, limit)
	if err != nil {
		return nil, fmt.Errorf("find implementations: %w", err)
	}
	return infos, nil
}

// ParentsOf returns the inheritance edges recorded for symbols named name.
func (s *Store) ParentsOf(name string) ([]*ParentLink, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT i.parent_name, i.kind FROM inheritance i
		 JOIN symbols s ON i.child_id = s.id WHERE s.name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("parents of: %w", err)
	}
	defer rows.Close()
	var links []*ParentLink
	for rows.Next() {
		l := &ParentLink{}
		if err := rows.Scan(&l.ParentName, &l.Kind); err != nil {
			return nil, fmt.Errorf("scan parent: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// --- Reference operations ---

func (s *Store) InsertReference(ref *Reference) (int64, error) {
	return insertReferenceTx(s.db, ref)
}

// ReferencesByName returns individual reference rows for one name.
func (s *Store) ReferencesByName(name string, limit int) ([]*ReferenceInfo, error) {
	rows, err := s.db.Query(
		`SELECT r.name, f.path, r.line, COALESCE(r.context, '') FROM refs r
		 JOIN files f ON r.file_id = f.id
		 WHERE r.name = ? ORDER BY f.path, r.line LIMIT ?`,
		name, limit)
	if err != nil {
		return nil, fmt.Errorf("references by name: %w", err)
	}
	defer rows.Close()
	var refs []*ReferenceInfo
	for rows.Next() {
		r := &ReferenceInfo{}
		if err := rows.Scan(&r.Name, &r.File, &r.Line, &r.Context); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// SearchUsages groups references to name by file, heaviest files first.
func (s *Store) SearchUsages(name string, limit int) ([]*UsageGroup, error) {
	rows, err := s.db.Query(
		`SELECT r.name, f.path, COUNT(*), MIN(r.line) FROM refs r
		 JOIN files f ON r.file_id = f.id
		 WHERE r.name = ?
		 GROUP BY r.name, f.path
		 ORDER BY COUNT(*) DESC, f.path LIMIT ?`,
		name, limit)
	if err != nil {
		return nil, fmt.Errorf("search usages: %w", err)
	}
	defer rows.Close()
	var groups []*UsageGroup
	for rows.Next() {
		g := &UsageGroup{}
		if err := rows.Scan(&g.Name, &g.File, &g.Count, &g.FirstLine); err != nil {
			return nil, fmt.Errorf("scan usage group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ReferenceCount returns the number of stored references to name.
func (s *Store) ReferenceCount(name string) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM refs WHERE name = ?", name).Scan(&n); err != nil {
		return 0, fmt.Errorf("reference count: %w", err)
	}
	return n, nil
}
