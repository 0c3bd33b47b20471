// Package enumerate walks source roots and yields the files eligible for
// indexing, honoring gitignore rules, built-in skip directories and user
// exclude globs.
package enumerate

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// FileMeta identifies one enumerated file by path, mtime and size.
type FileMeta struct {
	Path  string
	Mtime int64
	Size  int64
}

// Walk is the classified result of enumerating one root.
type Walk struct {
	// Sources are files an extractor can handle, including markup files.
	Sources []FileMeta
	// ModuleFiles are module descriptor files (Gradle build files,
	// SwiftPM manifests) in discovery order.
	ModuleFiles []string
	// Skipped counts unreadable entries, which are not fatal.
	Skipped int
}

// Options controls enumeration behavior.
type Options struct {
	// Eligible decides whether a file path can be extracted.
	Eligible func(path string) bool
	// Excludes are doublestar glob patterns matched against the
	// root-relative path.
	Excludes []string
	// NoIgnore disables .gitignore handling, indexing build output too.
	NoIgnore bool
}

// skipDirs are never descended into regardless of ignore rules.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"DerivedData":  true,
	"Pods":         true,
}

// moduleFileNames are the module descriptor files collected during the walk.
var moduleFileNames = map[string]bool{
	"build.gradle":     true,
	"build.gradle.kts": true,
	"Package.swift":    true,
}

// Enumerate walks root and returns the classified file set. The set is
// deterministic for unchanged inputs; ordering follows filepath.WalkDir.
func Enumerate(root string, opts Options) (*Walk, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("enumerate %s: not a directory", root)
	}

	var ign *gitignore.GitIgnore
	if !opts.NoIgnore {
		// Missing .gitignore is fine; compile errors are not fatal either.
		if g, err := gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			ign = g
		}
	}

	w := &Walk{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.Skipped++
			log.Printf("warning: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			if ign != nil && ign.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			if matchesAny(opts.Excludes, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if ign != nil && ign.MatchesPath(rel) {
			return nil
		}
		if matchesAny(opts.Excludes, rel) {
			return nil
		}

		if moduleFileNames[d.Name()] {
			w.ModuleFiles = append(w.ModuleFiles, path)
			return nil
		}
		if opts.Eligible == nil || !opts.Eligible(path) {
			return nil
		}

		fi, serr := d.Info()
		if serr != nil {
			w.Skipped++
			log.Printf("warning: stat %s: %v", path, serr)
			return nil
		}
		w.Sources = append(w.Sources, FileMeta{
			Path:  path,
			Mtime: fi.ModTime().Unix(),
			Size:  fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", root, err)
	}
	return w, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
