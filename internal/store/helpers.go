package store

import (
	"database/sql"
	"strings"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so insert helpers can run
// standalone or inside a chunk transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// placeholderList returns "?,?,?" for n placeholders.
func placeholderList(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// stringsToArgs converts []string to []any for use with database/sql.
func stringsToArgs(vals []string) []any {
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return args
}

// escapeFTSQuery quotes a user query for FTS5 MATCH. The whole term is
// wrapped in double quotes (internal quotes doubled) so punctuation cannot
// be parsed as FTS syntax; a trailing * stays outside the quotes to keep
// prefix queries working.
func escapeFTSQuery(q string) string {
	prefix := strings.HasSuffix(q, "*")
	q = strings.TrimSuffix(q, "*")
	out := `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
	if prefix {
		out += "*"
	}
	return out
}
