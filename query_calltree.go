package astindex

import (
	"os"
	"regexp"
	"strings"
)

const (
	// defaultCallTreeDepth is how many caller levels to expand.
	defaultCallTreeDepth = 3
	// callersPerLevel caps fan-in per node so hub functions stay readable.
	callersPerLevel = 10
)

// CallTreeNode is one function in a caller tree. Callers holds the
// functions that call this one; a Recursive node marks a cycle and is not
// expanded further.
type CallTreeNode struct {
	Function  string          `json:"function"`
	File      string          `json:"file,omitempty"`
	Line      int             `json:"line,omitempty"`
	Recursive bool            `json:"recursive,omitempty"`
	Callers   []*CallTreeNode `json:"callers,omitempty"`
}

// CallTree builds the tree of callers of the named function, depth levels
// up, at most callersPerLevel callers per node. Call sites come from the
// reference table filtered to call-shaped contexts; the enclosing function
// of each site is recovered by scanning the source file upward from the
// call line. Results are heuristic the same way references are.
func (q *QueryBuilder) CallTree(name string, depth int) (*CallTreeNode, error) {
	if depth <= 0 {
		depth = defaultCallTreeDepth
	}
	root := &CallTreeNode{Function: name}
	fileCache := make(map[string][]string)
	visited := map[string]bool{name: true}
	if err := q.expandCallers(root, depth, visited, fileCache); err != nil {
		return nil, err
	}
	return root, nil
}

func (q *QueryBuilder) expandCallers(node *CallTreeNode, depth int, visited map[string]bool, fileCache map[string][]string) error {
	if depth == 0 {
		return nil
	}
	refs, err := q.store.ReferencesByName(node.Function, callersPerLevel*4)
	if err != nil {
		return err
	}

	call := callSitePattern(node.Function)
	def := definitionPattern(node.Function)
	seen := make(map[string]bool)
	for _, ref := range refs {
		if len(node.Callers) >= callersPerLevel {
			break
		}
		if !call.MatchString(ref.Context) || def.MatchString(ref.Context) {
			continue
		}
		caller := enclosingFunction(ref.File, ref.Line, fileCache)
		if caller == "" || caller == node.Function || seen[caller] {
			continue
		}
		seen[caller] = true

		child := &CallTreeNode{Function: caller, File: ref.File, Line: ref.Line}
		if visited[caller] {
			child.Recursive = true
		} else {
			visited[caller] = true
			if err := q.expandCallers(child, depth-1, visited, fileCache); err != nil {
				return err
			}
		}
		node.Callers = append(node.Callers, child)
	}
	return nil
}

// callSitePattern matches "name(" as a call: after a dot, arrow or word
// boundary, with optional space before the paren.
func callSitePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:\.|->|::|\b)` + regexp.QuoteMeta(name) + `\s*\(`)
}

// definitionPattern matches the declaration line of the function itself so
// it is not mistaken for a call site.
func definitionPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(
		`\b(?:fun|func|void|def|public|private|protected|internal|override|open|static|suspend)\b[^(=]*\b` +
			regexp.QuoteMeta(name) + `\s*[(<]`)
}

// funcDeclPatterns recover a function name from its declaration line, one
// pattern per declaration shape.
var funcDeclPatterns = []*regexp.Regexp{
	// Kotlin: fun <T> name(
	regexp.MustCompile(`\bfun\s+(?:<[^>]*>\s*)?(\w+)\s*\(`),
	// Go and Swift: func (r Recv) name( / func name(
	regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?(\w+)\s*[(<\[]`),
	// Java: modifiers ReturnType name(...) {
	regexp.MustCompile(`(?:public|private|protected|static|final|synchronized|abstract|default)\s+[\w<>\[\],.\s]*?\b(\w+)\s*\([^)]*\)\s*(?:throws\b[^{]*)?\{`),
}

// enclosingFunction scans upward from line (1-based) for the nearest
// function declaration and returns its name, or "" when none is found.
// File contents are cached per query.
func enclosingFunction(path string, line int, cache map[string][]string) string {
	lines, ok := cache[path]
	if !ok {
		content, err := os.ReadFile(path)
		if err != nil {
			cache[path] = nil
			return ""
		}
		lines = strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
		cache[path] = lines
	}
	if line > len(lines) {
		line = len(lines)
	}
	for i := line - 1; i >= 0; i-- {
		for _, pat := range funcDeclPatterns {
			if m := pat.FindStringSubmatch(lines[i]); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
