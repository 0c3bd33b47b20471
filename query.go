package astindex

import (
	"fmt"

	"github.com/tmoore/astindex/internal/store"
)

// QueryBuilder provides read access to the index. All queries run against
// committed rows; a concurrent update is never observed half-applied
// because commits are per-chunk transactions.
type QueryBuilder struct {
	store *store.Store
}

// NewQueryBuilder wraps an existing Store.
func NewQueryBuilder(s *store.Store) *QueryBuilder {
	return &QueryBuilder{store: s}
}

// FindSymbol looks up symbols by exact name, falling back to prefix match
// when nothing matches exactly. kind narrows the result when non-empty.
func (q *QueryBuilder) FindSymbol(name, kind string, limit int) ([]*SymbolInfo, error) {
	return q.store.SymbolsByName(name, kind, limit)
}

// Search finds symbols by name. In fuzzy mode results are ranked exact
// match first, then prefix matches, then substring matches, shorter names
// before longer ones within each tier. Non-fuzzy mode is a plain substring
// match in the same ordering.
func (q *QueryBuilder) Search(query string, fuzzy bool, limit int) ([]*SymbolInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("search: empty query")
	}
	return q.store.SearchSymbols(query, fuzzy, limit)
}

// SearchFTS runs a full-text query over symbol names and signatures using
// the FTS index. The query string is escaped, so user input cannot inject
// FTS operators. In binaries built without the sqlite_fts5 tag this falls
// back to the LIKE-based fuzzy cascade.
func (q *QueryBuilder) SearchFTS(query string, limit int) ([]*SymbolInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("search: empty query")
	}
	return q.store.SearchSymbolsFTS(query, limit)
}

// SearchFiles finds indexed file paths by substring.
func (q *QueryBuilder) SearchFiles(query string, limit int) ([]string, error) {
	return q.store.SearchFiles(query, limit)
}

// Usages returns where a name is referenced, grouped per file with
// occurrence counts, most-referenced files first.
func (q *QueryBuilder) Usages(name string, limit int) ([]*UsageGroup, error) {
	return q.store.SearchUsages(name, limit)
}

// UsageDetails returns individual reference sites for a name with their
// source line context.
func (q *QueryBuilder) UsageDetails(name string, limit int) ([]*ReferenceInfo, error) {
	return q.store.ReferencesByName(name, limit)
}

// Implementations finds symbols that extend or implement the named parent.
// Exact name matches rank before qualified-suffix matches, which rank
// before substring matches.
func (q *QueryBuilder) Implementations(parent string, limit int) ([]*SymbolInfo, error) {
	return q.store.FindImplementations(parent, limit)
}

// Modules lists indexed modules, filtered to names containing pattern when
// pattern is non-empty.
func (q *QueryBuilder) Modules(pattern string, limit int) ([]*Module, error) {
	if pattern == "" {
		return q.store.AllModules()
	}
	return q.store.SearchModules(pattern, limit)
}

// Stats returns row counts for the main index tables.
func (q *QueryBuilder) Stats() (*Stats, error) {
	return q.store.Stats()
}

// Raw runs a read-only SQL query against the index, returning at most
// limit rows. Anything that is not a SELECT, WITH or EXPLAIN statement is
// rejected.
func (q *QueryBuilder) Raw(query string, limit int) (*RawResult, error) {
	return q.store.RawQuery(query, limit)
}
