//go:build !sqlite_fts5
// +build !sqlite_fts5

package store

// This file is compiled when the sqlite_fts5 tag is absent. The default
// github.com/mattn/go-sqlite3 build ships without the FTS5 module, so the
// schema carries no symbols_fts table and SearchSymbolsFTS degrades to the
// LIKE-based fuzzy cascade.

import "strings"

// FTSAvailable reports whether the binary was built with FTS5 support.
const FTSAvailable = false

const ftsDDL = ""

// SearchSymbolsFTS approximates a full-text query with the fuzzy LIKE
// cascade. A trailing * (FTS prefix syntax) and surrounding quotes are
// stripped so queries written for the FTS build still return results.
func (s *Store) SearchSymbolsFTS(query string, limit int) ([]*SymbolInfo, error) {
	query = strings.TrimSuffix(strings.Trim(query, `"`), "*")
	return s.SearchSymbols(query, true, limit)
}
