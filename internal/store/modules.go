package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// --- Module operations ---

// UpsertModule inserts or updates the module row for m.Name and returns its id.
func (s *Store) UpsertModule(m *Module) (int64, error) {
	_, err := s.db.Exec(
		`INSERT INTO modules (name, path, descriptor) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET path = excluded.path, descriptor = excluded.descriptor`,
		m.Name, m.Path, m.Descriptor,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert module: %w", err)
	}
	var id int64
	if err := s.db.QueryRow("SELECT id FROM modules WHERE name = ?", m.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert module id: %w", err)
	}
	m.ID = id
	return id, nil
}

func (s *Store) scanModules(rows *sql.Rows) ([]*Module, error) {
	defer rows.Close()
	var mods []*Module
	for rows.Next() {
		m := &Module{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Path, &m.Descriptor); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

const moduleCols = `id, name, path, COALESCE(descriptor, '')`

func (s *Store) ModuleByName(name string) (*Module, error) {
	m := &Module{}
	err := s.db.QueryRow(
		"SELECT "+moduleCols+" FROM modules WHERE name = ?", name,
	).Scan(&m.ID, &m.Name, &m.Path, &m.Descriptor)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("module by name: %w", err)
	}
	return m, nil
}

func (s *Store) AllModules() ([]*Module, error) {
	rows, err := s.db.Query("SELECT " + moduleCols + " FROM modules ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("all modules: %w", err)
	}
	return s.scanModules(rows)
}

// SearchModules returns modules whose name contains the pattern.
func (s *Store) SearchModules(pattern string, limit int) ([]*Module, error) {
	rows, err := s.db.Query(
		"SELECT "+moduleCols+" FROM modules WHERE name LIKE ? ORDER BY name LIMIT ?",
		"%"+pattern+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search modules: %w", err)
	}
	return s.scanModules(rows)
}

// PruneModules deletes every module whose name is not in keep, returning
// the number of rows removed. Dependency edges and transitive rows follow
// via FK cascade. This is how a module whose descriptor was deleted leaves
// the index without a full rebuild.
func (s *Store) PruneModules(keep []string) (int64, error) {
	var res sql.Result
	var err error
	if len(keep) == 0 {
		res, err = s.db.Exec("DELETE FROM modules")
	} else {
		res, err = s.db.Exec(
			"DELETE FROM modules WHERE name NOT IN ("+placeholderList(len(keep))+")",
			stringsToArgs(keep)...,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("prune modules: %w", err)
	}
	return res.RowsAffected()
}

// --- Dependency edge operations ---

// DepInfo is one resolved dependency edge: the dependency's name, its path
// when it is a known module, and the declaration kind.
type DepInfo struct {
	Name string
	Path string
	Kind string
}

// ReplaceModuleDeps atomically swaps the full module_deps edge set.
func (s *Store) ReplaceModuleDeps(edges []ModuleDep) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace module deps: begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM module_deps"); err != nil {
		return fmt.Errorf("replace module deps: clear: %w", err)
	}
	for _, e := range edges {
		if _, err := tx.Exec(
			"INSERT INTO module_deps (module_id, dep_name, kind) VALUES (?, ?, ?)",
			e.ModuleID, e.DepName, e.Kind,
		); err != nil {
			return fmt.Errorf("replace module deps: insert %q: %w", e.DepName, err)
		}
	}
	return tx.Commit()
}

// DirectDeps returns the declared dependency edges of one module.
func (s *Store) DirectDeps(moduleID int64) ([]*ModuleDep, error) {
	rows, err := s.db.Query(
		"SELECT id, module_id, dep_name, kind FROM module_deps WHERE module_id = ? ORDER BY dep_name",
		moduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("direct deps: %w", err)
	}
	defer rows.Close()
	var deps []*ModuleDep
	for rows.Next() {
		d := &ModuleDep{}
		if err := rows.Scan(&d.ID, &d.ModuleID, &d.DepName, &d.Kind); err != nil {
			return nil, fmt.Errorf("scan module dep: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// DepsOf returns the dependencies of the named module with resolved paths.
func (s *Store) DepsOf(moduleName string) ([]*DepInfo, error) {
	rows, err := s.db.Query(
		`SELECT d.dep_name, COALESCE(dm.path, ''), d.kind
		 FROM module_deps d
		 JOIN modules m ON d.module_id = m.id
		 LEFT JOIN modules dm ON dm.name = d.dep_name
		 WHERE m.name = ? ORDER BY d.kind, d.dep_name`,
		moduleName,
	)
	if err != nil {
		return nil, fmt.Errorf("deps of: %w", err)
	}
	return scanDepInfos(rows)
}

// DependentsOf returns the modules that declare a dependency on name.
func (s *Store) DependentsOf(name string) ([]*DepInfo, error) {
	rows, err := s.db.Query(
		`SELECT m.name, m.path, d.kind
		 FROM module_deps d
		 JOIN modules m ON d.module_id = m.id
		 WHERE d.dep_name = ? ORDER BY d.kind, m.name`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("dependents of: %w", err)
	}
	return scanDepInfos(rows)
}

func scanDepInfos(rows *sql.Rows) ([]*DepInfo, error) {
	defer rows.Close()
	var deps []*DepInfo
	for rows.Next() {
		d := &DepInfo{}
		if err := rows.Scan(&d.Name, &d.Path, &d.Kind); err != nil {
			return nil, fmt.Errorf("scan dep info: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// --- Transitive dependency cache ---

// ReplaceTransitiveDeps atomically swaps the cached closure rows.
func (s *Store) ReplaceTransitiveDeps(rows []TransitiveDep) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace transitive deps: begin: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM transitive_deps"); err != nil {
		return fmt.Errorf("replace transitive deps: clear: %w", err)
	}
	for _, r := range rows {
		if _, err := tx.Exec(
			"INSERT INTO transitive_deps (module_id, dep_name, depth, path) VALUES (?, ?, ?, ?)",
			r.ModuleID, r.DepName, r.Depth, r.Path,
		); err != nil {
			return fmt.Errorf("replace transitive deps: insert %q: %w", r.DepName, err)
		}
	}
	return tx.Commit()
}

// TransitiveDeps returns all cached closure rows for a module, nearest first.
func (s *Store) TransitiveDeps(moduleID int64) ([]*TransitiveDep, error) {
	rows, err := s.db.Query(
		"SELECT module_id, dep_name, depth, path FROM transitive_deps WHERE module_id = ? ORDER BY depth, dep_name",
		moduleID,
	)
	if err != nil {
		return nil, fmt.Errorf("transitive deps: %w", err)
	}
	defer rows.Close()
	var out []*TransitiveDep
	for rows.Next() {
		t := &TransitiveDep{}
		if err := rows.Scan(&t.ModuleID, &t.DepName, &t.Depth, &t.Path); err != nil {
			return nil, fmt.Errorf("scan transitive dep: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TransitivePaths returns the multi-hop paths by which moduleID reaches depName.
func (s *Store) TransitivePaths(moduleID int64, depName string) ([]*TransitiveDep, error) {
	rows, err := s.db.Query(
		`SELECT module_id, dep_name, depth, path FROM transitive_deps
		 WHERE module_id = ? AND dep_name = ? AND depth > 1 ORDER BY depth`,
		moduleID, depName,
	)
	if err != nil {
		return nil, fmt.Errorf("transitive paths: %w", err)
	}
	defer rows.Close()
	var out []*TransitiveDep
	for rows.Next() {
		t := &TransitiveDep{}
		if err := rows.Scan(&t.ModuleID, &t.DepName, &t.Depth, &t.Path); err != nil {
			return nil, fmt.Errorf("scan transitive path: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- Usage probes for dependency analysis ---

// classLikeKinds are the symbol kinds that form a module's public surface.
var classLikeKinds = []string{"class", "interface", "object", "enum"}

// ModulePublicSymbols returns the class-like symbol names defined under a
// module path, capped to keep the unused-deps scan bounded.
func (s *Store) ModulePublicSymbols(modulePath string, limit int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT s.name FROM symbols s
		 JOIN files f ON s.file_id = f.id
		 WHERE f.path LIKE ? AND s.kind IN (`+placeholderList(len(classLikeKinds))+`)
		 LIMIT ?`,
		append(append([]any{modulePath + "%"}, stringsToArgs(classLikeKinds)...), limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("module public symbols: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan symbol name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SymbolUsedInModule reports whether symbol is referenced from files under
// modulePath, excluding files under depPath and files that define the symbol
// themselves.
func (s *Store) SymbolUsedInModule(symbol, modulePath, depPath string) (bool, error) {
	var n int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM refs r
		 JOIN files f ON r.file_id = f.id
		 WHERE r.name = ? AND f.path LIKE ? AND f.path NOT LIKE ?
		   AND r.file_id NOT IN (SELECT file_id FROM symbols WHERE name = ?)`,
		symbol, modulePath+"%", depPath+"%", symbol,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("symbol used in module: %w", err)
	}
	return n > 0, nil
}

// CountXMLUsages counts layout references to a class, matching either the
// bare name or a dotted fully qualified suffix.
func (s *Store) CountXMLUsages(className string) (int64, error) {
	var n int64
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM xml_usages WHERE class_name = ? OR class_name LIKE ?",
		className, "%."+className,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count xml usages: %w", err)
	}
	return n, nil
}

// CountResourceUsages counts resource references made under modulePath to
// resources declared under depPath.
func (s *Store) CountResourceUsages(modulePath, depPath string) (int64, error) {
	var n int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM resource_usages ru
		 JOIN files fu ON ru.file_id = fu.id
		 WHERE fu.path LIKE ?
		   AND EXISTS (
		     SELECT 1 FROM resources rs
		     JOIN files fd ON rs.file_id = fd.id
		     WHERE fd.path LIKE ? AND rs.res_type = ru.res_type AND rs.name = ru.name
		   )`,
		modulePath+"%", depPath+"%",
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count resource usages: %w", err)
	}
	return n, nil
}

// --- Metadata ---

// GetMetadata returns the value stored for key, or ok=false when absent.
func (s *Store) GetMetadata(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get metadata: %w", err)
	}
	return v, true, nil
}

// SetMetadata stores or replaces the value for key.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

const metaExtraRoots = "extra_roots"

// ExtraRoots returns the configured extra source roots.
func (s *Store) ExtraRoots() ([]string, error) {
	v, ok, err := s.GetMetadata(metaExtraRoots)
	if err != nil || !ok {
		return nil, err
	}
	var roots []string
	if err := json.Unmarshal([]byte(v), &roots); err != nil {
		return nil, fmt.Errorf("extra roots: decode: %w", err)
	}
	return roots, nil
}

// SetExtraRoots replaces the configured extra source roots.
func (s *Store) SetExtraRoots(roots []string) error {
	b, err := json.Marshal(roots)
	if err != nil {
		return fmt.Errorf("extra roots: encode: %w", err)
	}
	return s.SetMetadata(metaExtraRoots, string(b))
}

// AddExtraRoot appends a root if it is not already configured.
func (s *Store) AddExtraRoot(root string) error {
	roots, err := s.ExtraRoots()
	if err != nil {
		return err
	}
	for _, r := range roots {
		if r == root {
			return nil
		}
	}
	return s.SetExtraRoots(append(roots, root))
}

// RemoveExtraRoot removes a root, reporting whether it was present.
func (s *Store) RemoveExtraRoot(root string) (bool, error) {
	roots, err := s.ExtraRoots()
	if err != nil {
		return false, err
	}
	kept := roots[:0]
	found := false
	for _, r := range roots {
		if r == root {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return false, nil
	}
	return true, s.SetExtraRoots(kept)
}
