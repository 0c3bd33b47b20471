package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmoore/astindex"
)

var (
	flagExcludes []string
	flagNoIgnore bool
	flagWorkers  int
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [path]",
	Short: "Rebuild the index from scratch",
	Long:  "Drops all indexed data and re-extracts every source file under the target directory and any configured extra roots.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRebuild,
}

var updateCmd = &cobra.Command{
	Use:   "update [path]",
	Short: "Incrementally update the index",
	Long:  "Re-extracts only files whose size or mtime changed, removes deleted files, and refreshes the module graph.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUpdate,
}

func init() {
	for _, cmd := range []*cobra.Command{rebuildCmd, updateCmd} {
		cmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "glob pattern to skip (repeatable, matched against root-relative paths)")
		cmd.Flags().BoolVar(&flagNoIgnore, "no-ignore", false, "index files that .gitignore excludes")
		cmd.Flags().IntVar(&flagWorkers, "workers", 0, "extraction worker count (default 8)")
	}
}

// openEngine creates an Engine for the target directory, creating the DB
// directory if needed.
func openEngine(targetDir string) (*astindex.Engine, error) {
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	opts := []astindex.Option{astindex.WithExcludes(flagExcludes...)}
	if flagNoIgnore {
		opts = append(opts, astindex.WithNoIgnore())
	}
	if flagWorkers > 0 {
		opts = append(opts, astindex.WithWorkers(flagWorkers))
	}
	return astindex.New(dbPath, opts...)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	engine, err := openEngine(targetDir)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	start := time.Now()
	report, err := engine.Rebuild(context.Background(), targetDir)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Rebuilt %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	return outputResult(CLIResult{Command: "rebuild", Results: report})
}

func runUpdate(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	engine, err := openEngine(targetDir)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	start := time.Now()
	report, err := engine.Update(context.Background(), targetDir)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Updated %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	return outputResult(CLIResult{Command: "update", Results: report})
}

// --- Extra roots ---

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Manage extra source roots indexed alongside the repository",
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register an extra source root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngineHere()
		if err != nil {
			return err
		}
		defer engine.Close()
		if err := engine.AddRoot(args[0]); err != nil {
			return outputError("roots add", err)
		}
		return runRootsList(cmd, nil)
	},
}

var rootsRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Unregister an extra source root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngineHere()
		if err != nil {
			return err
		}
		defer engine.Close()
		removed, err := engine.RemoveRoot(args[0])
		if err != nil {
			return outputError("roots remove", err)
		}
		if !removed {
			return outputError("roots remove", fmt.Errorf("root not registered: %s", args[0]))
		}
		return runRootsList(cmd, nil)
	},
}

var rootsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extra source roots",
	Args:  cobra.NoArgs,
	RunE:  runRootsList,
}

func init() {
	rootsCmd.AddCommand(rootsAddCmd)
	rootsCmd.AddCommand(rootsRemoveCmd)
	rootsCmd.AddCommand(rootsListCmd)
}

// openEngineHere opens the Engine for the current working directory's repo.
func openEngineHere() (*astindex.Engine, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	return openEngine(cwd)
}

func runRootsList(cmd *cobra.Command, args []string) error {
	engine, err := openEngineHere()
	if err != nil {
		return err
	}
	defer engine.Close()
	roots, err := engine.Roots()
	if err != nil {
		return outputError("roots list", err)
	}
	if roots == nil {
		roots = []string{}
	}
	return outputResult(CLIResult{Command: "roots", Results: roots})
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index row counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return outputError("stats", err)
		}
		defer s.Close()

		st, err := astindex.NewQueryBuilder(s).Stats()
		if err != nil {
			return outputError("stats", err)
		}
		return outputResult(CLIResult{Command: "stats", Results: statsToCLI(st)})
	},
}
