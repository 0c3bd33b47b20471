package astindex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tmoore/astindex/internal/extract"
	"github.com/tmoore/astindex/internal/store"
)

// maxTransitiveDepth caps the reachability cache. Real module graphs are
// shallow; deeper chains are almost always cycles the kind filter missed.
const maxTransitiveDepth = 5

// indexModules discovers module descriptors found during enumeration,
// parses their dependency declarations and rebuilds the direct and
// transitive dependency tables.
func (e *Engine) indexModules(walks []rootWalk, report *Report) error {
	type moduleEdges struct {
		id   int64
		deps []extract.DepDecl
	}
	byName := make(map[string]*moduleEdges)

	upsert := func(decl extract.ModuleDecl, deps []extract.DepDecl) error {
		id, err := e.store.UpsertModule(&store.Module{
			Name:       decl.Name,
			Path:       decl.Path,
			Descriptor: decl.Descriptor,
		})
		if err != nil {
			return fmt.Errorf("module %s: %w", decl.Name, err)
		}
		byName[decl.Name] = &moduleEdges{id: id, deps: deps}
		return nil
	}

	for _, w := range walks {
		for _, path := range w.walk.ModuleFiles {
			switch filepath.Base(path) {
			case "build.gradle", "build.gradle.kts":
				decl, ok := extract.GradleModule(w.root, path)
				if !ok {
					continue
				}
				content, err := os.ReadFile(path)
				if err != nil {
					report.Failed = append(report.Failed, FileError{Path: path, Err: err.Error()})
					continue
				}
				if err := upsert(*decl, extract.GradleDeps(content)); err != nil {
					return err
				}
			case "Package.swift":
				content, err := os.ReadFile(path)
				if err != nil {
					report.Failed = append(report.Failed, FileError{Path: path, Err: err.Error()})
					continue
				}
				for _, t := range extract.SwiftPackageTargets(path, content) {
					if err := upsert(t.ModuleDecl, t.Deps); err != nil {
						return err
					}
				}
			}
		}
	}

	// Modules whose descriptor vanished since the last pass leave the index
	// here, so an update converges on the same graph a rebuild would produce.
	keep := make([]string, 0, len(byName))
	for name := range byName {
		keep = append(keep, name)
	}
	if _, err := e.store.PruneModules(keep); err != nil {
		return err
	}

	var edges []store.ModuleDep
	for _, m := range byName {
		for _, d := range m.deps {
			edges = append(edges, store.ModuleDep{ModuleID: m.id, DepName: d.Name, Kind: d.Kind})
		}
	}
	if err := e.store.ReplaceModuleDeps(edges); err != nil {
		return err
	}

	// Adjacency for the closure walk: module name -> (dep name, kind).
	adj := make(map[string][]extract.DepDecl, len(byName))
	for name, m := range byName {
		adj[name] = m.deps
	}
	var rows []store.TransitiveDep
	for name, m := range byName {
		rows = append(rows, transitiveClosure(name, m.id, adj)...)
	}
	if err := e.store.ReplaceTransitiveDeps(rows); err != nil {
		return err
	}

	report.Modules += len(byName)
	report.ModuleDeps += len(edges)
	report.TransitiveDeps += len(rows)
	return nil
}

// transitiveClosure walks the dependency graph from one module. Direct deps
// enter at depth 1 regardless of kind; beyond that only api edges are
// followed, since implementation deps are not visible to dependents. BFS
// keeps the first (shortest) path per reachable dep, plus one alternate
// multi-hop path when an already reached dep turns up again through an api
// edge. The alternate row is what lets unused-deps analysis tell "declared
// and also re-exported by another dep" apart from "declared and orphaned".
func transitiveClosure(name string, id int64, adj map[string][]extract.DepDecl) []store.TransitiveDep {
	type hop struct {
		dep   string
		depth int
		path  string
	}
	visited := map[string]bool{name: true}
	alternate := map[string]bool{}
	var rows []store.TransitiveDep
	var frontier []hop

	for _, d := range adj[name] {
		if visited[d.Name] {
			continue
		}
		visited[d.Name] = true
		h := hop{dep: d.Name, depth: 1, path: name + " -> " + d.Name}
		rows = append(rows, store.TransitiveDep{ModuleID: id, DepName: h.dep, Depth: h.depth, Path: h.path})
		frontier = append(frontier, h)
	}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if cur.depth >= maxTransitiveDepth {
			continue
		}
		for _, d := range adj[cur.dep] {
			if d.Kind != "api" {
				continue
			}
			if visited[d.Name] {
				if d.Name != name && !alternate[d.Name] {
					alternate[d.Name] = true
					rows = append(rows, store.TransitiveDep{
						ModuleID: id, DepName: d.Name,
						Depth: cur.depth + 1, Path: cur.path + " -> " + d.Name,
					})
				}
				continue
			}
			visited[d.Name] = true
			h := hop{dep: d.Name, depth: cur.depth + 1, path: cur.path + " -> " + d.Name}
			rows = append(rows, store.TransitiveDep{ModuleID: id, DepName: h.dep, Depth: h.depth, Path: h.path})
			frontier = append(frontier, h)
		}
	}
	return rows
}
