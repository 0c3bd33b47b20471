package store

import (
	"fmt"
)

// ExtractedSymbol is a symbol plus the unresolved parent edges declared on
// it. Edges are inserted with the symbol's real id during commit.
type ExtractedSymbol struct {
	Symbol
	Parents []ParentLink
}

// FileExtraction is the complete extraction output for one file, buffered in
// memory until its chunk is committed.
type FileExtraction struct {
	File           File
	Symbols        []ExtractedSymbol
	Refs           []Reference
	XMLUsages      []XMLUsage
	Resources      []Resource
	ResourceUsages []ResourceUsage
}

// CommitChunk writes one chunk of file extractions in a single transaction.
// For each file the old rows are evicted and the new extraction inserted, so
// a file is either fully re-indexed or untouched. On any error the whole
// chunk rolls back.
func (s *Store) CommitChunk(files []*FileExtraction) error {
	if len(files) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit chunk: begin: %w", err)
	}
	defer tx.Rollback()

	for _, fe := range files {
		fileID, err := upsertFileTx(tx, &fe.File)
		if err != nil {
			return fmt.Errorf("commit chunk: file %s: %w", fe.File.Path, err)
		}

		// Evict stale rows before inserting the fresh extraction.
		for _, q := range []string{
			"DELETE FROM symbols WHERE file_id = ?",
			"DELETE FROM refs WHERE file_id = ?",
			"DELETE FROM xml_usages WHERE file_id = ?",
			"DELETE FROM resources WHERE file_id = ?",
			"DELETE FROM resource_usages WHERE file_id = ?",
		} {
			if _, err := tx.Exec(q, fileID); err != nil {
				return fmt.Errorf("commit chunk: evict %s: %w", fe.File.Path, err)
			}
		}

		for i := range fe.Symbols {
			sym := fe.Symbols[i].Symbol
			sym.FileID = fileID
			symID, err := insertSymbolTx(tx, &sym)
			if err != nil {
				return fmt.Errorf("commit chunk: symbol %q: %w", sym.Name, err)
			}
			for _, p := range fe.Symbols[i].Parents {
				if _, err := tx.Exec(
					"INSERT INTO inheritance (child_id, parent_name, kind) VALUES (?, ?, ?)",
					symID, p.ParentName, p.Kind,
				); err != nil {
					return fmt.Errorf("commit chunk: edge %q -> %q: %w", sym.Name, p.ParentName, err)
				}
			}
		}

		for i := range fe.Refs {
			ref := fe.Refs[i]
			ref.FileID = fileID
			if _, err := insertReferenceTx(tx, &ref); err != nil {
				return fmt.Errorf("commit chunk: reference %q: %w", ref.Name, err)
			}
		}

		for _, xu := range fe.XMLUsages {
			if _, err := tx.Exec(
				"INSERT INTO xml_usages (file_id, class_name, line) VALUES (?, ?, ?)",
				fileID, xu.ClassName, xu.Line,
			); err != nil {
				return fmt.Errorf("commit chunk: xml usage %q: %w", xu.ClassName, err)
			}
		}
		for _, r := range fe.Resources {
			if _, err := tx.Exec(
				"INSERT INTO resources (file_id, res_type, name) VALUES (?, ?, ?)",
				fileID, r.ResType, r.Name,
			); err != nil {
				return fmt.Errorf("commit chunk: resource %q: %w", r.Name, err)
			}
		}
		for _, ru := range fe.ResourceUsages {
			if _, err := tx.Exec(
				"INSERT INTO resource_usages (file_id, res_type, name, line) VALUES (?, ?, ?, ?)",
				fileID, ru.ResType, ru.Name, ru.Line,
			); err != nil {
				return fmt.Errorf("commit chunk: resource usage %q: %w", ru.Name, err)
			}
		}
	}

	return tx.Commit()
}

// --- Shared insert helpers (run against *sql.DB or *sql.Tx) ---

func upsertFileTx(q dbtx, f *File) (int64, error) {
	_, err := q.Exec(
		`INSERT INTO files (path, language, mtime, size, hash) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET language = excluded.language,
		   mtime = excluded.mtime, size = excluded.size, hash = excluded.hash`,
		f.Path, f.Language, f.Mtime, f.Size, f.Hash,
	)
	if err != nil {
		return 0, fmt.Errorf("upsert file: %w", err)
	}
	var id int64
	if err := q.QueryRow("SELECT id FROM files WHERE path = ?", f.Path).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert file id: %w", err)
	}
	f.ID = id
	return id, nil
}

func insertSymbolTx(q dbtx, sym *Symbol) (int64, error) {
	res, err := q.Exec(
		"INSERT INTO symbols (file_id, name, kind, line, signature) VALUES (?, ?, ?, ?, ?)",
		sym.FileID, sym.Name, sym.Kind, sym.Line, sym.Signature,
	)
	if err != nil {
		return 0, fmt.Errorf("insert symbol: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	sym.ID = id
	return id, nil
}

func insertReferenceTx(q dbtx, ref *Reference) (int64, error) {
	res, err := q.Exec(
		"INSERT INTO refs (file_id, name, line, context) VALUES (?, ?, ?, ?)",
		ref.FileID, ref.Name, ref.Line, ref.Context,
	)
	if err != nil {
		return 0, fmt.Errorf("insert reference: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	ref.ID = id
	return id, nil
}
