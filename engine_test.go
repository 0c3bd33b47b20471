package astindex

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmoore/astindex/internal/lockfile"
)

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureRepo lays out a two-module Gradle tree with a cross-module
// reference and one values resource file.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()

	writeSource(t, filepath.Join(repo, "build.gradle.kts"), "plugins { id(\"base\") }\n")
	writeSource(t, filepath.Join(repo, "core", "build.gradle.kts"), "plugins { id(\"com.android.library\") }\n")
	writeSource(t, filepath.Join(repo, "feature", "home", "build.gradle.kts"),
		"dependencies {\n    api(projects.core)\n}\n")

	writeSource(t, filepath.Join(repo, "core", "src", "main", "kotlin", "com", "app", "core", "UserRepository.kt"), `package com.app.core

class UserRepository {
    fun loadUser(id: String): String {
        return id
    }
}
`)
	writeSource(t, filepath.Join(repo, "feature", "home", "src", "main", "kotlin", "com", "app", "home", "HomeViewModel.kt"), `package com.app.home

class HomeViewModel(private val repo: UserRepository) : ViewModel() {
    fun refresh() {
        repo.loadUser("1")
    }
}
`)
	writeSource(t, filepath.Join(repo, "core", "src", "main", "res", "values", "strings.xml"),
		"<resources>\n    <string name=\"app_name\">Demo</string>\n</resources>\n")

	return repo
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(filepath.Join(t.TempDir(), "index.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestRebuild_IndexesRepo(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)

	report, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, 0, report.SkippedLarge)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 3, report.Modules)
	assert.Equal(t, 1, report.ModuleDeps)
	assert.Equal(t, 1, report.TransitiveDeps)

	syms, err := e.Query().Search("HomeViewModel", true, 10)
	require.NoError(t, err)
	require.Len(t, syms, 1)
	assert.Equal(t, "class", syms[0].Kind)
	assert.True(t, strings.HasSuffix(syms[0].File, "HomeViewModel.kt"))
}

func TestRebuild_IsIdempotent(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)

	first, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)
	second, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats, err := e.Query().Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Files)
	assert.EqualValues(t, 3, stats.Modules)
	assert.EqualValues(t, 1, stats.ModuleDeps)
}

func TestRebuild_SkipsOversizeFiles(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	big := "// generated\n" + strings.Repeat("val filler = 1\n", (2<<20)/15+1)
	writeSource(t, filepath.Join(repo, "core", "src", "main", "kotlin", "Generated.kt"), big)

	e := newTestEngine(t)
	report, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Indexed)
	assert.Equal(t, 1, report.SkippedLarge)
}

func TestRebuild_ExtraRootsSurviveAndIndex(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	extra := t.TempDir()
	writeSource(t, filepath.Join(extra, "Tracker.kt"), "package com.lib\n\nclass Tracker\n")

	e := newTestEngine(t)
	require.NoError(t, e.AddRoot(extra))

	report, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Indexed)

	roots, err := e.Roots()
	require.NoError(t, err)
	abs, _ := filepath.Abs(extra)
	assert.Equal(t, []string{abs}, roots)

	syms, err := e.Query().Search("Tracker", true, 10)
	require.NoError(t, err)
	require.Len(t, syms, 1)
}

func TestRebuild_LockHeldTimesOut(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")
	e, err := New(dbPath, WithLockTimeout(200*time.Millisecond))
	require.NoError(t, err)
	defer e.Close()

	held, err := lockfile.Acquire(dbPath+".lock", time.Second)
	require.NoError(t, err)
	defer held.Release()

	_, err = e.Rebuild(context.Background(), repo)
	require.ErrorIs(t, err, lockfile.ErrTimeout)
}

func TestUpdate_ClassifiesChanges(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)
	_, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	writeSource(t, filepath.Join(repo, "feature", "home", "src", "main", "kotlin", "com", "app", "home", "HomeRouter.kt"),
		"package com.app.home\n\nclass HomeRouter\n")
	modified := filepath.Join(repo, "core", "src", "main", "kotlin", "com", "app", "core", "UserRepository.kt")
	writeSource(t, modified, `package com.app.core

class UserRepository {
    fun loadUser(id: String): String {
        return id
    }

    fun deleteUser(id: String) {
    }
}
`)
	require.NoError(t, os.Chtimes(modified, time.Now().Add(time.Hour), time.Now().Add(time.Hour)))
	require.NoError(t, os.Remove(filepath.Join(repo, "core", "src", "main", "res", "values", "strings.xml")))

	report, err := e.Update(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Modified)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 2, report.Indexed)

	syms, err := e.Query().FindSymbol("deleteUser", "function", 10)
	require.NoError(t, err)
	require.Len(t, syms, 1)
}

func TestUpdate_TouchedIdenticalIsUnchanged(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)
	_, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	touched := filepath.Join(repo, "feature", "home", "src", "main", "kotlin", "com", "app", "home", "HomeViewModel.kt")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(touched, future, future))

	report, err := e.Update(context.Background(), repo)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 0, report.Modified)
	assert.Equal(t, 0, report.Removed)
	assert.Equal(t, 3, report.Unchanged)
	assert.Equal(t, 0, report.Indexed)
}

func TestUpdate_RemovedFileDropsItsSymbols(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)
	_, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(repo, "feature", "home", "src")))
	_, err = e.Update(context.Background(), repo)
	require.NoError(t, err)

	syms, err := e.Query().Search("HomeViewModel", true, 10)
	require.NoError(t, err)
	assert.Empty(t, syms)
}

func TestUpdate_RemovedDescriptorDropsItsModule(t *testing.T) {
	t.Parallel()
	repo := fixtureRepo(t)
	e := newTestEngine(t)
	_, err := e.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(repo, "core", "build.gradle.kts")))
	report, err := e.Update(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Modules)

	// The updated graph matches what a rebuild of the same tree produces.
	fresh := newTestEngine(t)
	_, err = fresh.Rebuild(context.Background(), repo)
	require.NoError(t, err)

	updated, err := e.Query().Modules("", 100)
	require.NoError(t, err)
	rebuilt, err := fresh.Query().Modules("", 100)
	require.NoError(t, err)

	names := func(mods []*Module) []string {
		out := make([]string, len(mods))
		for i, m := range mods {
			out[i] = m.Name
		}
		return out
	}
	assert.Equal(t, names(rebuilt), names(updated))
	assert.NotContains(t, names(updated), "core")
}
