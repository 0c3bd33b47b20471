package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQuery_SelectWorks(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/src/a.kt", "kotlin")
	insertTestSymbol(t, s, f.ID, "Alpha", "class")

	res, err := s.RawQuery("SELECT name, kind FROM symbols ORDER BY name", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "kind"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Alpha", "class"}, res.Rows[0])
}

func TestRawQuery_Limit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/src/a.kt", "kotlin")
	for _, n := range []string{"A", "B", "C"} {
		insertTestSymbol(t, s, f.ID, n, "class")
	}

	res, err := s.RawQuery("SELECT name FROM symbols", 2)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestRawQuery_NullRendering(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	res, err := s.RawQuery("SELECT NULL AS x", 10)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "NULL", res.Rows[0][0])
}

func TestRawQuery_RejectsMutations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, q := range []string{
		"DELETE FROM files",
		"INSERT INTO metadata (key, value) VALUES ('a', 'b')",
		"UPDATE symbols SET name = 'x'",
		"DROP TABLE files",
		"PRAGMA journal_mode = DELETE",
		"  drop table files",
		"",
		"   ",
	} {
		_, err := s.RawQuery(q, 10)
		assert.ErrorIs(t, err, ErrReadOnly, "query %q must be rejected", q)
	}
}

func TestRawQuery_RejectsMultiStatement(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.RawQuery("SELECT 1; DELETE FROM files", 10)
	assert.ErrorIs(t, err, ErrReadOnly)

	// A single trailing semicolon is fine.
	_, err = s.RawQuery("SELECT 1;", 10)
	assert.NoError(t, err)
}

func TestRawQuery_CommentsDoNotHideStatements(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.RawQuery("-- harmless\nDELETE FROM files", 10)
	assert.ErrorIs(t, err, ErrReadOnly)

	_, err = s.RawQuery("/* note */ SELECT 1", 10)
	assert.NoError(t, err)

	_, err = s.RawQuery("-- only a comment", 10)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRawQuery_RejectsCTEFrontedMutations(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, q := range []string{
		"WITH x AS (SELECT 1) INSERT INTO metadata (key, value) VALUES ('k', 'v')",
		"WITH x AS (SELECT 1) DELETE FROM files",
		"WITH x(n) AS (SELECT 1) UPDATE symbols SET name = 'x'",
	} {
		_, err := s.RawQuery(q, 10)
		assert.ErrorIs(t, err, ErrReadOnly, "query %q must be rejected", q)
	}

	// Nothing was written.
	_, ok, err := s.GetMetadata("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Keyword-shaped text inside literals and comments stays legal.
	_, err = s.RawQuery("SELECT name FROM symbols WHERE kind = 'insert'", 10)
	assert.NoError(t, err)
	_, err = s.RawQuery("SELECT 1 /* do not delete */", 10)
	assert.NoError(t, err)
}

func TestRawQuery_AllowsWithAndExplain(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.RawQuery("WITH x(n) AS (SELECT 1) SELECT n FROM x", 10)
	assert.NoError(t, err)

	_, err = s.RawQuery("EXPLAIN QUERY PLAN SELECT * FROM files", 10)
	assert.NoError(t, err)
}
