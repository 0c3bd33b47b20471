package astindex

import (
	"fmt"
	"strings"
)

// publicSymbolSample caps how many of a dependency's public symbols are
// probed for usage. Modules exposing more than this are effectively always
// classified used by the time the cap is reached.
const publicSymbolSample = 100

// Deps returns the direct dependencies of a module, joined with the dep's
// path when it resolves to an indexed module.
func (q *QueryBuilder) Deps(moduleName string) ([]*DepInfo, error) {
	if _, err := q.moduleOrErr(moduleName); err != nil {
		return nil, err
	}
	return q.store.DepsOf(moduleName)
}

// Dependents returns the modules that directly depend on the named module.
func (q *QueryBuilder) Dependents(moduleName string) ([]*DepInfo, error) {
	if _, err := q.moduleOrErr(moduleName); err != nil {
		return nil, err
	}
	return q.store.DependentsOf(moduleName)
}

// TransitiveDeps returns the precomputed reachability rows for a module,
// direct deps first, each with the hop chain that reached it.
func (q *QueryBuilder) TransitiveDeps(moduleName string) ([]*TransitiveDep, error) {
	mod, err := q.moduleOrErr(moduleName)
	if err != nil {
		return nil, err
	}
	return q.store.TransitiveDeps(mod.ID)
}

// DepUsage is the usage evidence gathered for one declared dependency.
type DepUsage struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// DirectSymbols samples up to three of the dep's public symbols that
	// the module references.
	DirectSymbols []string `json:"direct_symbols,omitempty"`
	DirectCount   int      `json:"direct_count"`
	// TransitiveVia names the intermediate module when the dep is only
	// reachable through it.
	TransitiveVia  string `json:"transitive_via,omitempty"`
	XMLUsages      int64  `json:"xml_usages,omitempty"`
	ResourceUsages int64  `json:"resource_usages,omitempty"`
}

// UnusedDepsReport classifies a module's declared dependencies.
type UnusedDepsReport struct {
	Module string `json:"module"`
	// Unused deps show no usage evidence at all.
	Unused []*DepUsage `json:"unused,omitempty"`
	// Exported are api deps without local usage; they may exist purely to
	// re-export types to dependents, so they get their own bucket.
	Exported []*DepUsage `json:"exported,omitempty"`
	Used     []*DepUsage `json:"used,omitempty"`
	// External counts declared deps that are not indexed modules and
	// cannot be analyzed.
	External int `json:"external,omitempty"`
}

// UnusedDeps checks each declared dependency of a module for evidence of
// use. Evidence tiers, cheapest first: references to the dep's public
// symbols from the module's own files, reachability through an
// intermediate module (skipped in strict mode), class usages in markup
// files, and resource usages. A dependency with no evidence in any tier is
// reported unused, except api deps, which are reported as exported.
func (q *QueryBuilder) UnusedDeps(moduleName string, strict bool) (*UnusedDepsReport, error) {
	mod, err := q.moduleOrErr(moduleName)
	if err != nil {
		return nil, err
	}
	deps, err := q.store.DepsOf(moduleName)
	if err != nil {
		return nil, err
	}

	report := &UnusedDepsReport{Module: moduleName}
	for _, dep := range deps {
		if dep.Path == "" {
			report.External++
			continue
		}
		usage, err := q.depUsage(mod, dep, strict)
		if err != nil {
			return nil, err
		}
		switch {
		case usage.DirectCount > 0 || usage.TransitiveVia != "" ||
			usage.XMLUsages > 0 || usage.ResourceUsages > 0:
			report.Used = append(report.Used, usage)
		case dep.Kind == "api":
			report.Exported = append(report.Exported, usage)
		default:
			report.Unused = append(report.Unused, usage)
		}
	}
	return report, nil
}

func (q *QueryBuilder) depUsage(mod *Module, dep *DepInfo, strict bool) (*DepUsage, error) {
	usage := &DepUsage{Name: dep.Name, Kind: dep.Kind}

	pubs, err := q.store.ModulePublicSymbols(dep.Path, publicSymbolSample)
	if err != nil {
		return nil, err
	}
	for _, sym := range pubs {
		used, err := q.store.SymbolUsedInModule(sym, mod.Path, dep.Path)
		if err != nil {
			return nil, err
		}
		if used {
			usage.DirectCount++
			if len(usage.DirectSymbols) < 3 {
				usage.DirectSymbols = append(usage.DirectSymbols, sym)
			}
		}
	}
	if usage.DirectCount > 0 {
		return usage, nil
	}

	if !strict {
		paths, err := q.store.TransitivePaths(mod.ID, dep.Name)
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			if hops := strings.Split(paths[0].Path, " -> "); len(hops) > 1 {
				usage.TransitiveVia = hops[1]
			}
			return usage, nil
		}
	}

	for _, sym := range pubs {
		n, err := q.store.CountXMLUsages(sym)
		if err != nil {
			return nil, err
		}
		usage.XMLUsages += n
	}
	if usage.XMLUsages > 0 {
		return usage, nil
	}

	usage.ResourceUsages, err = q.store.CountResourceUsages(mod.Path, dep.Path)
	if err != nil {
		return nil, err
	}
	return usage, nil
}

func (q *QueryBuilder) moduleOrErr(name string) (*Module, error) {
	mod, err := q.store.ModuleByName(name)
	if err != nil {
		return nil, err
	}
	if mod == nil {
		return nil, fmt.Errorf("module %q not found", name)
	}
	return mod, nil
}
