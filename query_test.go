package astindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmoore/astindex/internal/store"
)

// indexTree writes files (relative path to content) into a fresh repo,
// rebuilds an index over it and returns the engine plus the repo root.
func indexTree(t *testing.T, files map[string]string) (*Engine, string) {
	t.Helper()
	repo := t.TempDir()
	for rel, content := range files {
		writeSource(t, filepath.Join(repo, filepath.FromSlash(rel)), content)
	}
	e := newTestEngine(t)
	_, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)
	return e, repo
}

func symbolNames(syms []*SymbolInfo) []string {
	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	return names
}

func TestSearch_RanksExactThenPrefixThenSubstring(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"src/Stores.kt": `package com.app

class Store
class StoreImpl
class AppStore
`,
	})

	syms, err := e.Query().Search("Store", true, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Store", "StoreImpl", "AppStore"}, symbolNames(syms))
}

func TestSearch_EmptyQueryIsAnError(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{"src/A.kt": "package a\n\nclass A1\n"})

	_, err := e.Query().Search("", true, 10)
	assert.Error(t, err)
	_, err = e.Query().SearchFTS("", 10)
	assert.Error(t, err)
}

func TestFindSymbol_KindFilter(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"src/Sync.kt": `package com.app

class Refresh

fun refresh() {
}
`,
	})

	classes, err := e.Query().FindSymbol("Refresh", "class", 10)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	funcs, err := e.Query().FindSymbol("refresh", "function", 10)
	require.NoError(t, err)
	require.Len(t, funcs, 1)
	assert.Equal(t, "function", funcs[0].Kind)
}

func TestUsages_HeaviestFileFirst(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"core/Repo.kt": "package com.app.core\n\nclass UserRepository\n",
		"a/Light.kt": `package com.app.a

val repo = UserRepository()
`,
		"b/Heavy.kt": `package com.app.b

val one = UserRepository()
val two = UserRepository()
`,
	})

	groups, err := e.Query().Usages("UserRepository", 10)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Contains(t, groups[0].File, "Heavy.kt")
	assert.Equal(t, 2, groups[0].Count)
	assert.Contains(t, groups[1].File, "Light.kt")
	assert.Equal(t, 1, groups[1].Count)

	details, err := e.Query().UsageDetails("UserRepository", 10)
	require.NoError(t, err)
	assert.Len(t, details, 3)
	for _, d := range details {
		assert.Contains(t, d.Context, "UserRepository")
	}
}

func TestImplementations_FindsSubtypes(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"src/ViewModels.kt": `package com.app

class HomeViewModel : ViewModel()
class SettingsViewModel : ViewModel(), Refreshable
class Unrelated
`,
	})

	impls, err := e.Query().Implementations("ViewModel", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"HomeViewModel", "SettingsViewModel"}, symbolNames(impls))

	refreshers, err := e.Query().Implementations("Refreshable", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"SettingsViewModel"}, symbolNames(refreshers))
}

func TestSearchFiles_Substring(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"feature/home/HomeScreen.kt": "package com.app\n\nclass HomeScreen\n",
		"feature/auth/LoginScreen.kt": "package com.app\n\nclass LoginScreen\n",
	})

	paths, err := e.Query().SearchFiles("home/Home", 10)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "HomeScreen.kt")
}

func TestRaw_SelectOnlyAccess(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"src/A.kt": "package a\n\nclass Alpha\n",
	})

	res, err := e.Query().Raw("SELECT name, kind FROM symbols ORDER BY name", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "kind"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Alpha", res.Rows[0][0])

	_, err = e.Query().Raw("DELETE FROM symbols", 10)
	require.ErrorIs(t, err, store.ErrReadOnly)
}

func TestStats_CountsRows(t *testing.T) {
	t.Parallel()
	e, _ := indexTree(t, map[string]string{
		"build.gradle.kts": "plugins { id(\"base\") }\n",
		"src/A.kt":         "package a\n\nclass Alpha\n",
	})

	stats, err := e.Query().Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Files)
	assert.EqualValues(t, 1, stats.Symbols)
	assert.EqualValues(t, 1, stats.Modules)
}
