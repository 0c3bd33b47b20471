//go:build sqlite_fts5
// +build sqlite_fts5

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesFTSIndex(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='symbols_fts'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "symbols_fts", name)
}

func TestSearchSymbolsFTS_PrefixAndEscaping(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/src/net.kt", "kotlin")
	insertTestSymbol(t, s, f.ID, "NetworkClient", "class")

	got, err := s.SearchSymbolsFTS("NetworkClient", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Prefix form matches too.
	got, err = s.SearchSymbolsFTS("Network*", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Quotes and operators in user input must not break the query.
	_, err = s.SearchSymbolsFTS(`Net"work OR x`, 10)
	require.NoError(t, err)
}
