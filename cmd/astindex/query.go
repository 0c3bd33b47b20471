package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmoore/astindex"
	"github.com/tmoore/astindex/internal/store"
)

var (
	flagLimit  int
	flagFuzzy  bool
	flagFTS    bool
	flagDepth  int
	flagStrict bool
)

// openStore opens the Store from the --db flag path (or default).
func openStore() (*store.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	repoRoot := findRepoRoot(cwd)
	dbPath := resolveDBPath(repoRoot)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'astindex rebuild' first)", dbPath)
	}
	return store.NewStore(dbPath)
}

// openQuery opens the Store and wraps it in a QueryBuilder.
func openQuery() (*store.Store, *astindex.QueryBuilder, error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return s, astindex.NewQueryBuilder(s), nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as
// a CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// --- Symbol queries ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search symbols by name",
	Long:  "Finds symbols by name. With --fuzzy, exact matches rank before prefix matches before substring matches. With --fts, runs a full-text query over names and signatures instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&flagFuzzy, "fuzzy", true, "rank exact before prefix before substring matches")
	searchCmd.Flags().BoolVar(&flagFTS, "fts", false, "use the full-text index over names and signatures (needs a sqlite_fts5 build)")
	searchCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum results")

	usagesCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum results")
	implementationsCmd.Flags().IntVar(&flagLimit, "limit", 50, "maximum results")
	callTreeCmd.Flags().IntVar(&flagDepth, "depth", 3, "caller levels to expand")
	unusedDepsCmd.Flags().BoolVar(&flagStrict, "strict", false, "do not count transitive reachability as usage")
	sqlCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum rows")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, qb, err := openQuery()
	if err != nil {
		return outputError("search", err)
	}
	defer s.Close()

	var syms []*astindex.SymbolInfo
	if flagFTS {
		syms, err = qb.SearchFTS(args[0], flagLimit)
	} else {
		syms, err = qb.Search(args[0], flagFuzzy, flagLimit)
	}
	if err != nil {
		return outputError("search", err)
	}
	return outputResult(CLIResult{Command: "search", Results: symbolsToCLI(syms)})
}

var usagesCmd = &cobra.Command{
	Use:   "usages <name>",
	Short: "Show where a name is referenced, grouped by file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("usages", err)
		}
		defer s.Close()

		groups, err := qb.Usages(args[0], flagLimit)
		if err != nil {
			return outputError("usages", err)
		}
		return outputResult(CLIResult{Command: "usages", Results: usagesToCLI(groups)})
	},
}

var implementationsCmd = &cobra.Command{
	Use:   "implementations <name>",
	Short: "Find symbols that extend or implement a type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("implementations", err)
		}
		defer s.Close()

		syms, err := qb.Implementations(args[0], flagLimit)
		if err != nil {
			return outputError("implementations", err)
		}
		return outputResult(CLIResult{Command: "implementations", Results: symbolsToCLI(syms)})
	},
}

var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy <name>",
	Short: "Show a type's ancestors and known subtypes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("hierarchy", err)
		}
		defer s.Close()

		h, err := qb.Hierarchy(args[0])
		if err != nil {
			return outputError("hierarchy", err)
		}
		return outputResult(CLIResult{Command: "hierarchy", Results: h})
	},
}

var callTreeCmd = &cobra.Command{
	Use:   "call-tree <function>",
	Short: "Show the callers of a function, recursively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("call-tree", err)
		}
		defer s.Close()

		tree, err := qb.CallTree(args[0], flagDepth)
		if err != nil {
			return outputError("call-tree", err)
		}
		return outputResult(CLIResult{Command: "call-tree", Results: tree})
	},
}

// --- Module queries ---

var modulesCmd = &cobra.Command{
	Use:   "modules [pattern]",
	Short: "List indexed modules, optionally filtered by name substring",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("modules", err)
		}
		defer s.Close()

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		mods, err := qb.Modules(pattern, 100)
		if err != nil {
			return outputError("modules", err)
		}
		return outputResult(CLIResult{Command: "modules", Results: modulesToCLI(mods)})
	},
}

var flagTransitive bool

var depsCmd = &cobra.Command{
	Use:   "deps <module>",
	Short: "Show a module's dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("deps", err)
		}
		defer s.Close()

		if flagTransitive {
			rows, err := qb.TransitiveDeps(args[0])
			if err != nil {
				return outputError("deps", err)
			}
			return outputResult(CLIResult{Command: "deps", Results: transitiveToCLI(rows)})
		}
		deps, err := qb.Deps(args[0])
		if err != nil {
			return outputError("deps", err)
		}
		return outputResult(CLIResult{Command: "deps", Results: depsToCLI(deps)})
	},
}

func init() {
	depsCmd.Flags().BoolVar(&flagTransitive, "transitive", false, "include transitively reachable deps with their paths")
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <module>",
	Short: "Show the modules that depend on a module",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("dependents", err)
		}
		defer s.Close()

		deps, err := qb.Dependents(args[0])
		if err != nil {
			return outputError("dependents", err)
		}
		return outputResult(CLIResult{Command: "dependents", Results: depsToCLI(deps)})
	},
}

var unusedDepsCmd = &cobra.Command{
	Use:   "unused-deps <module>",
	Short: "Find declared dependencies with no usage evidence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("unused-deps", err)
		}
		defer s.Close()

		report, err := qb.UnusedDeps(args[0], flagStrict)
		if err != nil {
			return outputError("unused-deps", err)
		}
		return outputResult(CLIResult{Command: "unused-deps", Results: report})
	},
}

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a read-only SQL query against the index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, qb, err := openQuery()
		if err != nil {
			return outputError("sql", err)
		}
		defer s.Close()

		res, err := qb.Raw(args[0], flagLimit)
		if err != nil {
			return outputError("sql", err)
		}
		return outputResult(CLIResult{Command: "sql", Results: res})
	},
}
