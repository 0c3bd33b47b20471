package enumerate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sourceExt(path string) bool {
	switch filepath.Ext(path) {
	case ".kt", ".java", ".swift", ".go", ".xml":
		return true
	}
	return false
}

func sourcePaths(w *Walk) []string {
	out := make([]string, 0, len(w.Sources))
	for _, fm := range w.Sources {
		out = append(out, fm.Path)
	}
	return out
}

func TestEnumerate_ClassifiesSourcesAndModuleFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	kt := writeFile(t, root, "app/src/Main.kt", "class Main")
	writeFile(t, root, "app/build.gradle.kts", "plugins {}")
	writeFile(t, root, "Package.swift", "// swift-tools-version:5.9")
	writeFile(t, root, "README.md", "docs")

	w, err := Enumerate(root, Options{Eligible: sourceExt})
	require.NoError(t, err)

	assert.Equal(t, []string{kt}, sourcePaths(w))
	require.Len(t, w.ModuleFiles, 2)
	assert.True(t, strings.HasSuffix(w.ModuleFiles[0], "Package.swift"))
	assert.True(t, strings.HasSuffix(w.ModuleFiles[1], "build.gradle.kts"))
}

func TestEnumerate_HonorsGitignore(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\ngenerated.kt\n")
	writeFile(t, root, "build/out.kt", "class Out")
	writeFile(t, root, "generated.kt", "class Gen")
	keep := writeFile(t, root, "src/Main.kt", "class Main")

	w, err := Enumerate(root, Options{Eligible: sourceExt})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, sourcePaths(w))
}

func TestEnumerate_NoIgnoreIndexesEverything(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "build/\n")
	writeFile(t, root, "build/out.kt", "class Out")
	writeFile(t, root, "src/Main.kt", "class Main")

	w, err := Enumerate(root, Options{Eligible: sourceExt, NoIgnore: true})
	require.NoError(t, err)
	assert.Len(t, w.Sources, 2)
}

func TestEnumerate_ExcludeGlobs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, "src/Main.kt", "class Main")
	writeFile(t, root, "src/test/MainTest.kt", "class MainTest")

	w, err := Enumerate(root, Options{Eligible: sourceExt, Excludes: []string{"**/test/**"}})
	require.NoError(t, err)
	require.Len(t, w.Sources, 1)
	assert.True(t, strings.HasSuffix(w.Sources[0].Path, "Main.kt"))
}

func TestEnumerate_SkipsHiddenAndBuildDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, root, ".hidden/secret.kt", "class S")
	writeFile(t, root, "node_modules/pkg/index.go", "package pkg")
	writeFile(t, root, "vendor/dep/dep.go", "package dep")
	writeFile(t, root, "Pods/lib/lib.swift", "class L")
	keep := writeFile(t, root, "src/Main.kt", "class Main")

	w, err := Enumerate(root, Options{Eligible: sourceExt})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, sourcePaths(w))
}

func TestEnumerate_RecordsMtimeAndSize(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeFile(t, root, "Main.kt", "class Main")

	w, err := Enumerate(root, Options{Eligible: sourceExt})
	require.NoError(t, err)
	require.Len(t, w.Sources, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime().Unix(), w.Sources[0].Mtime)
	assert.Equal(t, info.Size(), w.Sources[0].Size)
}

func TestEnumerate_NotADirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := writeFile(t, root, "Main.kt", "class Main")

	_, err := Enumerate(path, Options{Eligible: sourceExt})
	require.Error(t, err)

	_, err = Enumerate(filepath.Join(root, "missing"), Options{Eligible: sourceExt})
	require.Error(t, err)
}
