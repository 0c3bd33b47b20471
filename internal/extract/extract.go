// Package extract holds the per-language extractors. Each extractor is a
// pure function of a file's content, which keeps parallel extraction safe.
// The set is closed and selected by file extension.
package extract

import (
	"path/filepath"
	"strings"
)

// Symbol is a named declaration extracted from one file at one line.
type Symbol struct {
	Name      string
	Kind      string
	Line      int
	Signature string
	Parents   []Edge
}

// Edge is an unresolved inheritance link from the declaring symbol.
type Edge struct {
	ParentName string
	Kind       string // extends, implements, with
}

// Reference is a textual occurrence of a name.
type Reference struct {
	Name    string
	Line    int
	Context string
}

// XMLUsage is a class referenced from a markup file.
type XMLUsage struct {
	ClassName string
	Line      int
}

// Resource is a declared named resource.
type Resource struct {
	ResType string
	Name    string
}

// ResourceUsage is a reference to a named resource.
type ResourceUsage struct {
	ResType string
	Name    string
	Line    int
}

// Result is the complete extraction output for one file.
type Result struct {
	Symbols        []Symbol
	References     []Reference
	Imports        []string
	XMLUsages      []XMLUsage
	Resources      []Resource
	ResourceUsages []ResourceUsage
}

// Extractor extracts structural facts from one file's content.
type Extractor interface {
	Language() string
	Extract(path string, content []byte) (*Result, error)
}

// extractors is the closed extension-to-extractor set.
var extractors = map[string]Extractor{
	".kt":    kotlinExtractor{},
	".kts":   kotlinExtractor{},
	".java":  javaExtractor{},
	".swift": swiftExtractor{},
	".go":    goExtractor{},
	".xml":   xmlExtractor{},
}

// ForPath returns the extractor responsible for a file, if any.
func ForPath(path string) (Extractor, bool) {
	e, ok := extractors[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Supported reports whether any extractor handles the file.
func Supported(path string) bool {
	_, ok := ForPath(path)
	return ok
}

// Language returns the language name for a path, or "" when unsupported.
func Language(path string) string {
	e, ok := ForPath(path)
	if !ok {
		return ""
	}
	return e.Language()
}

// maxSignature caps stored declaration signatures.
const maxSignature = 200

// signatureAt returns the trimmed source line at the given 1-based line
// number, capped to maxSignature bytes.
func signatureAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	sig := strings.TrimSpace(lines[line-1])
	if len(sig) > maxSignature {
		sig = sig[:maxSignature]
	}
	return sig
}

// splitLines splits content for line-oriented scanning.
func splitLines(content []byte) []string {
	return strings.Split(string(content), "\n")
}
