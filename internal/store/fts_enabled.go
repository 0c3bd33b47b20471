//go:build sqlite_fts5
// +build sqlite_fts5

package store

// This file is compiled when building with the sqlite_fts5 tag, which is
// what enables the FTS5 module inside github.com/mattn/go-sqlite3.
//
// Build command:
//   CGO_ENABLED=1 go build -tags sqlite_fts5 ./...
//
// With the tag, symbol search via the --fts flag uses an FTS5 index over
// symbol names and signatures kept in sync with the symbols table by
// triggers. Without it, SearchSymbolsFTS falls back to the LIKE cascade.

import "fmt"

// FTSAvailable reports whether the binary was built with FTS5 support.
const FTSAvailable = true

const ftsDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
  name, signature, content=symbols, content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS symbols_ai AFTER INSERT ON symbols BEGIN
  INSERT INTO symbols_fts(rowid, name, signature) VALUES (new.id, new.name, new.signature);
END;
CREATE TRIGGER IF NOT EXISTS symbols_ad AFTER DELETE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, signature) VALUES ('delete', old.id, old.name, old.signature);
END;
CREATE TRIGGER IF NOT EXISTS symbols_au AFTER UPDATE ON symbols BEGIN
  INSERT INTO symbols_fts(symbols_fts, rowid, name, signature) VALUES ('delete', old.id, old.name, old.signature);
  INSERT INTO symbols_fts(rowid, name, signature) VALUES (new.id, new.name, new.signature);
END;
`

// SearchSymbolsFTS runs a full-text query over symbol names and signatures.
func (s *Store) SearchSymbolsFTS(query string, limit int) ([]*SymbolInfo, error) {
	infos, err := s.querySymbolInfos(
		"SELECT "+symbolInfoCols+` FROM symbols_fts
		 JOIN symbols s ON s.id = symbols_fts.rowid
		 JOIN files f ON s.file_id = f.id
		 WHERE symbols_fts MATCH ?
		 ORDER BY rank LIMIT ?`,
		escapeFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search symbols fts: %w", err)
	}
	return infos, nil
}
