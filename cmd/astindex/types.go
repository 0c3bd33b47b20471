package main

import "github.com/tmoore/astindex"

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLISymbol is a JSON-friendly symbol representation.
type CLISymbol struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Signature string `json:"signature,omitempty"`
}

// CLIUsage is one file's aggregated references to a name.
type CLIUsage struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Count     int    `json:"count"`
	FirstLine int    `json:"first_line"`
}

// CLIReference is a single reference site with source context.
type CLIReference struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Context string `json:"context,omitempty"`
}

// CLIModule is a JSON-friendly module representation.
type CLIModule struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Descriptor string `json:"descriptor"`
}

// CLIDep is a declared module dependency.
type CLIDep struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
}

// CLITransitiveDep is one row of a module's reachability closure.
type CLITransitiveDep struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	Path  string `json:"path"`
}

// CLIStats is a JSON-friendly stats block.
type CLIStats struct {
	Files          int64 `json:"files"`
	Symbols        int64 `json:"symbols"`
	Refs           int64 `json:"refs"`
	Modules        int64 `json:"modules"`
	ModuleDeps     int64 `json:"module_deps"`
	TransitiveDeps int64 `json:"transitive_deps"`
	XMLUsages      int64 `json:"xml_usages"`
	Resources      int64 `json:"resources"`
	ResourceUsages int64 `json:"resource_usages"`
}

// symbolToCLI converts a SymbolInfo to a CLISymbol.
func symbolToCLI(s *astindex.SymbolInfo) CLISymbol {
	return CLISymbol{
		Name:      s.Name,
		Kind:      s.Kind,
		File:      s.File,
		Line:      s.Line,
		Signature: s.Signature,
	}
}

func symbolsToCLI(syms []*astindex.SymbolInfo) []CLISymbol {
	out := make([]CLISymbol, 0, len(syms))
	for _, s := range syms {
		out = append(out, symbolToCLI(s))
	}
	return out
}

func usagesToCLI(groups []*astindex.UsageGroup) []CLIUsage {
	out := make([]CLIUsage, 0, len(groups))
	for _, g := range groups {
		out = append(out, CLIUsage{Name: g.Name, File: g.File, Count: g.Count, FirstLine: g.FirstLine})
	}
	return out
}

func modulesToCLI(mods []*astindex.Module) []CLIModule {
	out := make([]CLIModule, 0, len(mods))
	for _, m := range mods {
		out = append(out, CLIModule{Name: m.Name, Path: m.Path, Descriptor: m.Descriptor})
	}
	return out
}

func depsToCLI(deps []*astindex.DepInfo) []CLIDep {
	out := make([]CLIDep, 0, len(deps))
	for _, d := range deps {
		out = append(out, CLIDep{Name: d.Name, Kind: d.Kind, Path: d.Path})
	}
	return out
}

func transitiveToCLI(rows []*astindex.TransitiveDep) []CLITransitiveDep {
	out := make([]CLITransitiveDep, 0, len(rows))
	for _, r := range rows {
		out = append(out, CLITransitiveDep{Name: r.DepName, Depth: r.Depth, Path: r.Path})
	}
	return out
}

func statsToCLI(st *astindex.Stats) CLIStats {
	return CLIStats{
		Files:          st.Files,
		Symbols:        st.Symbols,
		Refs:           st.Refs,
		Modules:        st.Modules,
		ModuleDeps:     st.ModuleDeps,
		TransitiveDeps: st.TransitiveDeps,
		XMLUsages:      st.XMLUsages,
		Resources:      st.Resources,
		ResourceUsages: st.ResourceUsages,
	}
}
