package extract

import (
	"regexp"
	"strings"
)

// maxContext caps the stored context line for a reference so pathological
// inputs (minified files, generated code) cannot blow up row sizes.
const maxContext = 200

var (
	typeRefPattern = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]*)\b`)
	callRefPattern = regexp.MustCompile(`\b([a-z][a-zA-Z0-9]*)\s*\(`)
)

// commonTypes are capitalized names too ubiquitous to index as references.
var commonTypes = map[string]bool{
	"String": true, "Int": true, "Long": true, "Float": true, "Double": true,
	"Boolean": true, "Char": true, "Byte": true, "Short": true, "Unit": true,
	"Any": true, "Nothing": true, "Void": true, "Object": true, "Integer": true,
	"List": true, "MutableList": true, "ArrayList": true, "Map": true,
	"MutableMap": true, "HashMap": true, "Set": true, "MutableSet": true,
	"HashSet": true, "Array": true, "Pair": true, "Triple": true,
	"Override": true, "Deprecated": true, "Suppress": true, "Test": true,
	"Exception": true, "Error": true, "Throwable": true, "Optional": true,
	"T": true, "R": true, "E": true, "K": true, "V": true,
}

// commonCalls are lowercase callables that are language builtins or
// stdlib noise, never user symbols worth indexing.
var commonCalls = map[string]bool{
	"if": true, "when": true, "for": true, "while": true, "return": true,
	"catch": true, "switch": true, "super": true, "this": true, "func": true,
	"fun": true, "print": true, "println": true, "require": true,
	"check": true, "error": true, "panic": true, "make": true, "new": true,
	"len": true, "cap": true, "append": true, "copy": true, "delete": true,
	"listOf": true, "mapOf": true, "setOf": true, "arrayOf": true,
	"mutableListOf": true, "mutableMapOf": true, "lazy": true, "apply": true,
	"also": true, "let": true, "run": true, "with": true, "repeat": true,
	"forEach": true, "map": true, "filter": true, "first": true, "last": true,
	"get": true, "set": true, "toString": true, "equals": true,
	"hashCode": true, "invoke": true, "guard": true, "defer": true,
}

// textualReferences scans content line by line for capitalized type
// occurrences and lowercase call sites. Import, package and comment lines
// are skipped, as are names declared in the same file (locals is the set of
// symbol names the extractor found).
func textualReferences(lines []string, locals map[string]bool) []Reference {
	var refs []Reference
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || skipRefLine(trimmed) {
			continue
		}
		context := trimmed
		if len(context) > maxContext {
			context = context[:maxContext]
		}

		seen := map[string]bool{}
		for _, m := range typeRefPattern.FindAllStringSubmatch(trimmed, -1) {
			name := m[1]
			if len(name) < 2 || commonTypes[name] || locals[name] || seen[name] {
				continue
			}
			seen[name] = true
			refs = append(refs, Reference{Name: name, Line: i + 1, Context: context})
		}
		for _, m := range callRefPattern.FindAllStringSubmatch(trimmed, -1) {
			name := m[1]
			if len(name) <= 2 || commonCalls[name] || locals[name] || seen[name] {
				continue
			}
			seen[name] = true
			refs = append(refs, Reference{Name: name, Line: i + 1, Context: context})
		}
	}
	return refs
}

func skipRefLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "import ") ||
		strings.HasPrefix(trimmed, "package ") ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "/*")
}

// localNames collects the declared symbol names of a file so its own
// declarations are not also recorded as references.
func localNames(symbols []Symbol) map[string]bool {
	names := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		names[s.Name] = true
	}
	return names
}

var importPattern = regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+)`)

// scanImports collects dotted import targets, shared by the JVM-style
// languages.
func scanImports(lines []string) []string {
	var imports []string
	for _, line := range lines {
		if m := importPattern.FindStringSubmatch(line); m != nil {
			imports = append(imports, m[1])
		}
	}
	return imports
}
