package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtraction(path string, mtime int64, symbols ...string) *FileExtraction {
	fe := &FileExtraction{
		File: File{Path: path, Language: "kotlin", Mtime: mtime, Size: 64, Hash: "h1"},
	}
	for _, name := range symbols {
		fe.Symbols = append(fe.Symbols, ExtractedSymbol{
			Symbol:  Symbol{Name: name, Kind: "class", Line: 1},
			Parents: []ParentLink{{ParentName: "Base" + name, Kind: "extends"}},
		})
		fe.Refs = append(fe.Refs, Reference{Name: name + "Helper", Line: 2, Context: name + "Helper()"})
	}
	return fe
}

func TestCommitChunk_InsertsAllRows(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.CommitChunk([]*FileExtraction{
		testExtraction("/src/a.kt", 100, "Alpha"),
		testExtraction("/src/b.kt", 100, "Beta", "Gamma"),
	})
	require.NoError(t, err)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Files)
	assert.Equal(t, int64(3), st.Symbols)
	assert.Equal(t, int64(3), st.Refs)

	impls, err := s.FindImplementations("BaseBeta", 10)
	require.NoError(t, err)
	require.Len(t, impls, 1)
	assert.Equal(t, "Beta", impls[0].Name)
}

func TestCommitChunk_ReindexEvictsStaleRows(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.CommitChunk([]*FileExtraction{
		testExtraction("/src/a.kt", 100, "Alpha", "Old"),
	}))
	require.NoError(t, s.CommitChunk([]*FileExtraction{
		testExtraction("/src/a.kt", 200, "Alpha"),
	}))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Files)
	assert.Equal(t, int64(1), st.Symbols, "old symbols must be evicted")
	assert.Equal(t, int64(1), st.Refs)

	gone, err := s.SymbolsByName("Old", "", 10)
	require.NoError(t, err)
	assert.Empty(t, gone)

	f, err := s.FileByPath("/src/a.kt")
	require.NoError(t, err)
	assert.Equal(t, int64(200), f.Mtime)
}

func TestCommitChunk_FailureRollsBackWholeChunk(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.CommitChunk([]*FileExtraction{
		testExtraction("/src/a.kt", 100, "Alpha", "Old"),
	}))

	// Make the second file of the next chunk fail at insert time.
	_, err := s.db.Exec(`CREATE TRIGGER reject_poison BEFORE INSERT ON files
		WHEN new.path = '/src/poison.kt'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	err = s.CommitChunk([]*FileExtraction{
		testExtraction("/src/a.kt", 200, "Alpha"),
		testExtraction("/src/b.kt", 200, "Beta"),
		testExtraction("/src/poison.kt", 200, "Poison"),
	})
	require.Error(t, err)

	// Nothing from the failed chunk landed: the new file is absent and the
	// re-extraction of a.kt did not evict its previous rows.
	got, err := s.FileByPath("/src/b.kt")
	require.NoError(t, err)
	assert.Nil(t, got)

	prev, err := s.FileByPath("/src/a.kt")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, int64(100), prev.Mtime)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Files)
	assert.Equal(t, int64(2), st.Symbols, "prior extraction must survive intact")
	assert.Equal(t, int64(2), st.Refs)
}

func TestCommitChunk_EmptyIsNoop(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.CommitChunk(nil))
}

func TestCommitChunk_XMLAndResources(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	fe := &FileExtraction{
		File: File{Path: "/res/layout/main.xml", Language: "xml", Mtime: 1, Size: 10, Hash: "x"},
		XMLUsages: []XMLUsage{
			{ClassName: "com.app.widget.ChartView", Line: 4},
		},
		Resources: []Resource{
			{ResType: "string", Name: "app_name"},
		},
		ResourceUsages: []ResourceUsage{
			{ResType: "drawable", Name: "icon", Line: 8},
		},
	}
	require.NoError(t, s.CommitChunk([]*FileExtraction{fe}))

	n, err := s.CountXMLUsages("ChartView")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "qualified suffix must match the bare class name")

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Resources)
	assert.Equal(t, int64(1), st.ResourceUsages)
}
