package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrReadOnly is returned when a statement other than a read-only query is
// submitted to RawQuery.
var ErrReadOnly = errors.New("raw query surface is read-only: only SELECT, WITH and EXPLAIN are accepted")

// RawResult holds the column names and stringified rows of a raw query.
type RawResult struct {
	Columns []string
	Rows    [][]string
}

// RawQuery runs an ad-hoc read-only SQL statement against the index schema.
// Mutating statements and multi-statement input are rejected with ErrReadOnly
// before reaching the database.
func (s *Store) RawQuery(query string, limit int) (*RawResult, error) {
	if err := checkReadOnly(query); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("raw query columns: %w", err)
	}

	result := &RawResult{Columns: cols}
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if limit > 0 && len(result.Rows) >= limit {
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("raw query scan: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

// checkReadOnly rejects anything that is not a single read-only statement.
func checkReadOnly(query string) error {
	stripped := stripLeadingComments(strings.TrimSpace(query))
	if stripped == "" {
		return ErrReadOnly
	}

	// A trailing semicolon is fine; anything after one is a second statement.
	if i := strings.Index(stripped, ";"); i >= 0 && strings.TrimSpace(stripped[i+1:]) != "" {
		return ErrReadOnly
	}

	first := strings.ToUpper(firstWord(stripped))
	switch first {
	case "SELECT", "WITH", "EXPLAIN":
	default:
		return ErrReadOnly
	}

	// The first keyword is not enough: a CTE prefix can front a mutation
	// (WITH x AS (SELECT 1) INSERT INTO ...). Scan every keyword of the
	// statement with string literals and comments removed.
	for _, word := range sqlWords(stripped) {
		if mutatingKeywords[word] {
			return ErrReadOnly
		}
	}
	return nil
}

var mutatingKeywords = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true, "REPLACE": true,
	"CREATE": true, "DROP": true, "ALTER": true,
	"ATTACH": true, "DETACH": true, "VACUUM": true,
	"PRAGMA": true, "REINDEX": true,
}

// sqlWords tokenizes a statement into uppercase bare words, skipping string
// literals, quoted identifiers and comments so their contents cannot trip
// the keyword scan.
func sqlWords(s string) []string {
	var words []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			words = append(words, strings.ToUpper(word.String()))
			word.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			flush()
			for i++; i < len(s) && s[i] != c; i++ {
			}
		case c == '[':
			flush()
			for i++; i < len(s) && s[i] != ']'; i++ {
			}
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			flush()
			for i += 2; i < len(s) && s[i] != '\n'; i++ {
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			flush()
			if end := strings.Index(s[i+2:], "*/"); end >= 0 {
				i += 2 + end + 1
			} else {
				i = len(s)
			}
		case c == '_' || c >= '0' && c <= '9' ||
			c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			word.WriteByte(c)
		default:
			flush()
		}
	}
	flush()
	return words
}

func stripLeadingComments(s string) string {
	for {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		default:
			return s
		}
	}
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';' {
			return s[:i]
		}
	}
	return s
}
