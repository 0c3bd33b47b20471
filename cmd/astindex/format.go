package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tmoore/astindex"
)

// formatSymbolsText formats CLISymbol results as aligned columns.
func formatSymbolsText(w io.Writer, syms []CLISymbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.Name, s.Kind, s.File, s.Line)
	}
	tw.Flush()
}

// formatUsagesText formats CLIUsage results as aligned columns.
func formatUsagesText(w io.Writer, usages []CLIUsage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCOUNT\tFIRST LINE")
	for _, u := range usages {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", u.File, u.Count, u.FirstLine)
	}
	tw.Flush()
}

// formatModulesText formats CLIModule results as aligned columns.
func formatModulesText(w io.Writer, mods []CLIModule) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTOR\tPATH")
	for _, m := range mods {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, m.Descriptor, m.Path)
	}
	tw.Flush()
}

// formatDepsText formats CLIDep results grouped by kind.
func formatDepsText(w io.Writer, deps []CLIDep) {
	byKind := make(map[string][]CLIDep)
	var kinds []string
	for _, d := range deps {
		if _, ok := byKind[d.Kind]; !ok {
			kinds = append(kinds, d.Kind)
		}
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}
	for _, kind := range kinds {
		fmt.Fprintf(w, "%s:\n", kind)
		for _, d := range byKind[kind] {
			fmt.Fprintf(w, "  %s\n", d.Name)
		}
	}
}

// formatTransitiveText formats reachability rows with their hop chains.
func formatTransitiveText(w io.Writer, rows []CLITransitiveDep) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEP\tDEPTH\tPATH")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.Name, r.Depth, r.Path)
	}
	tw.Flush()
}

// formatStatsText formats the stats block as one row per table.
func formatStatsText(w io.Writer, st CLIStats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "files\t%d\n", st.Files)
	fmt.Fprintf(tw, "symbols\t%d\n", st.Symbols)
	fmt.Fprintf(tw, "refs\t%d\n", st.Refs)
	fmt.Fprintf(tw, "modules\t%d\n", st.Modules)
	fmt.Fprintf(tw, "module_deps\t%d\n", st.ModuleDeps)
	fmt.Fprintf(tw, "transitive_deps\t%d\n", st.TransitiveDeps)
	fmt.Fprintf(tw, "xml_usages\t%d\n", st.XMLUsages)
	fmt.Fprintf(tw, "resources\t%d\n", st.Resources)
	fmt.Fprintf(tw, "resource_usages\t%d\n", st.ResourceUsages)
	tw.Flush()
}

// formatHierarchyText renders ancestors then the descendant tree.
func formatHierarchyText(w io.Writer, h *astindex.Hierarchy) {
	fmt.Fprintf(w, "%s (%s) %s:%d\n", h.Symbol.Name, h.Symbol.Kind, h.Symbol.File, h.Symbol.Line)
	for i, level := range h.Ancestors {
		for _, link := range level {
			fmt.Fprintf(w, "%s^ %s (%s)\n", strings.Repeat("  ", i+1), link.ParentName, link.Kind)
		}
	}
	var walk func(nodes []*astindex.HierarchyNode, depth int)
	walk = func(nodes []*astindex.HierarchyNode, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(w, "%sv %s (%s) %s:%d\n",
				strings.Repeat("  ", depth), n.Symbol.Name, n.Symbol.Kind, n.Symbol.File, n.Symbol.Line)
			walk(n.Children, depth+1)
		}
	}
	walk(h.Descendants, 1)
}

// formatCallTreeText renders the caller tree with indentation.
func formatCallTreeText(w io.Writer, node *astindex.CallTreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case depth == 0:
		fmt.Fprintf(w, "%s\n", node.Function)
	case node.Recursive:
		fmt.Fprintf(w, "%s%s (recursive) %s:%d\n", indent, node.Function, node.File, node.Line)
	default:
		fmt.Fprintf(w, "%s%s %s:%d\n", indent, node.Function, node.File, node.Line)
	}
	for _, c := range node.Callers {
		formatCallTreeText(w, c, depth+1)
	}
}

// formatUnusedDepsText renders the classification buckets.
func formatUnusedDepsText(w io.Writer, r *astindex.UnusedDepsReport) {
	fmt.Fprintf(w, "Module: %s\n", r.Module)
	if len(r.Unused) > 0 {
		fmt.Fprintln(w, "Unused:")
		for _, d := range r.Unused {
			fmt.Fprintf(w, "  %s (%s)\n", d.Name, d.Kind)
		}
	}
	if len(r.Exported) > 0 {
		fmt.Fprintln(w, "Exported (api, no local usage):")
		for _, d := range r.Exported {
			fmt.Fprintf(w, "  %s\n", d.Name)
		}
	}
	if len(r.Used) > 0 {
		fmt.Fprintln(w, "Used:")
		for _, d := range r.Used {
			switch {
			case d.DirectCount > 0:
				fmt.Fprintf(w, "  %s (%d symbols, e.g. %s)\n", d.Name, d.DirectCount, strings.Join(d.DirectSymbols, ", "))
			case d.TransitiveVia != "":
				fmt.Fprintf(w, "  %s (via %s)\n", d.Name, d.TransitiveVia)
			case d.XMLUsages > 0:
				fmt.Fprintf(w, "  %s (%d xml usages)\n", d.Name, d.XMLUsages)
			default:
				fmt.Fprintf(w, "  %s (%d resource usages)\n", d.Name, d.ResourceUsages)
			}
		}
	}
	if r.External > 0 {
		fmt.Fprintf(w, "External deps not analyzed: %d\n", r.External)
	}
}

// formatRawText renders a raw query result as aligned columns.
func formatRawText(w io.Writer, res *astindex.RawResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// formatReportText renders an indexing report.
func formatReportText(w io.Writer, r *astindex.Report) {
	fmt.Fprintf(w, "Indexed: %d files\n", r.Indexed)
	if r.SkippedLarge > 0 {
		fmt.Fprintf(w, "Skipped (too large): %d\n", r.SkippedLarge)
	}
	fmt.Fprintf(w, "Modules: %d (%d deps, %d transitive)\n", r.Modules, r.ModuleDeps, r.TransitiveDeps)
	for _, f := range r.Failed {
		fmt.Fprintf(w, "Failed: %s: %s\n", f.Path, f.Err)
	}
}

// formatUpdateReportText renders an incremental update report.
func formatUpdateReportText(w io.Writer, r *astindex.UpdateReport) {
	fmt.Fprintf(w, "Added: %d  Modified: %d  Removed: %d  Unchanged: %d\n",
		r.Added, r.Modified, r.Removed, r.Unchanged)
	formatReportText(w, &r.Report)
}

// outputResultText dispatches to the appropriate text formatter based on
// the result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLISymbol:
		formatSymbolsText(w, v)
	case []CLIUsage:
		formatUsagesText(w, v)
	case []CLIModule:
		formatModulesText(w, v)
	case []CLIDep:
		formatDepsText(w, v)
	case []CLITransitiveDep:
		formatTransitiveText(w, v)
	case CLIStats:
		formatStatsText(w, v)
	case *astindex.Hierarchy:
		formatHierarchyText(w, v)
	case *astindex.CallTreeNode:
		formatCallTreeText(w, v, 0)
	case *astindex.UnusedDepsReport:
		formatUnusedDepsText(w, v)
	case *astindex.RawResult:
		formatRawText(w, v)
	case *astindex.Report:
		formatReportText(w, v)
	case *astindex.UpdateReport:
		formatUpdateReportText(w, v)
	case []string:
		for _, s := range v {
			fmt.Fprintln(w, s)
		}
	case nil:
		// No output for nil results.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
