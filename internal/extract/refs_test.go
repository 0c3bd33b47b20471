package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func refNames(refs []Reference) []string {
	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}

func TestTextualReferences_SkipsNoiseLines(t *testing.T) {
	t.Parallel()
	lines := []string{
		"package com.app",
		"import com.app.core.Session",
		"// UserRepo is documented here",
		"* UserRepo javadoc continuation",
		"val repo = UserRepo(dispatcher)",
	}
	refs := textualReferences(lines, map[string]bool{})

	assert.Equal(t, []string{"UserRepo"}, refNames(refs))
	assert.Equal(t, 5, refs[0].Line)
}

func TestTextualReferences_FiltersCommonAndLocalNames(t *testing.T) {
	t.Parallel()
	lines := []string{
		"val items: List<String> = loadItems(ItemStore, T)",
	}
	refs := textualReferences(lines, map[string]bool{"ItemStore": true})

	assert.Equal(t, []string{"loadItems"}, refNames(refs))
}

func TestTextualReferences_DedupesPerLine(t *testing.T) {
	t.Parallel()
	lines := []string{"Widget.merge(Widget.count, Widget.of(1))"}
	refs := textualReferences(lines, map[string]bool{})

	assert.Equal(t, []string{"Widget", "merge"}, refNames(refs))
}

func TestTextualReferences_ContextCapped(t *testing.T) {
	t.Parallel()
	long := "val x = Thing(" + strings.Repeat("a, ", 200) + ")"
	refs := textualReferences([]string{long}, map[string]bool{})

	assert.NotEmpty(t, refs)
	assert.Len(t, refs[0].Context, maxContext)
}

func TestScanImports_StaticAndPlain(t *testing.T) {
	t.Parallel()
	lines := []string{
		"import com.app.core.Session",
		"import static org.junit.Assert.assertEquals",
		"val notAnImport = 1",
	}
	assert.Equal(t,
		[]string{"com.app.core.Session", "org.junit.Assert.assertEquals"},
		scanImports(lines))
}
