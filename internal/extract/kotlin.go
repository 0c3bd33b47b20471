package extract

import (
	"regexp"
	"strings"
)

// kotlinExtractor is a line-oriented regex extractor for Kotlin sources.
type kotlinExtractor struct{}

func (kotlinExtractor) Language() string { return "kotlin" }

var (
	ktTypePattern = regexp.MustCompile(
		`^\s*((?:(?:public|private|protected|internal|abstract|final|open|sealed|data|inner|value|annotation|enum|companion)\s+)*)(class|interface|object)\s+(\w+)(.*)`)
	ktFunPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|protected|internal|override|open|abstract|final|suspend|inline|operator|infix|tailrec|external|actual|expect)\s+)*fun\s+(?:<[^>]*>\s*)?(?:[\w.<>?]+\.)?(\w+)\s*[(<]`)
	ktPropPattern = regexp.MustCompile(
		`^\s*((?:(?:public|private|protected|internal|override|open|final|const|lateinit|actual)\s+)*)(?:val|var)\s+(\w+)`)
	ktAliasPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|internal)\s+)*typealias\s+(\w+)`)
	resourceUsagePattern = regexp.MustCompile(`\bR\.(\w+)\.(\w+)`)
)

func (kotlinExtractor) Extract(path string, content []byte) (*Result, error) {
	lines := splitLines(content)
	res := &Result{Imports: scanImports(lines)}

	for i, line := range lines {
		lineNo := i + 1
		if m := ktTypePattern.FindStringSubmatch(line); m != nil {
			kind := m[2]
			if containsWord(m[1], "enum") {
				kind = "enum"
			}
			res.Symbols = append(res.Symbols, Symbol{
				Name:      m[3],
				Kind:      kind,
				Line:      lineNo,
				Signature: signatureAt(lines, lineNo),
				Parents:   parseParents(supertypeList(m[4])),
			})
			continue
		}
		if m := ktFunPattern.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[1], Kind: "function", Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
			continue
		}
		if m := ktAliasPattern.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[1], Kind: "typealias", Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
			continue
		}
		if m := ktPropPattern.FindStringSubmatch(line); m != nil {
			kind := "property"
			if containsWord(m[1], "const") {
				kind = "constant"
			}
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[2], Kind: kind, Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
		}
	}

	res.References = textualReferences(lines, localNames(res.Symbols))
	res.ResourceUsages = scanResourceUsages(lines)
	return res, nil
}

// scanResourceUsages finds R.type.name references in JVM sources.
func scanResourceUsages(lines []string) []ResourceUsage {
	var usages []ResourceUsage
	for i, line := range lines {
		for _, m := range resourceUsagePattern.FindAllStringSubmatch(line, -1) {
			usages = append(usages, ResourceUsage{
				ResType: m[1], Name: m[2], Line: i + 1,
			})
		}
	}
	return usages
}

func containsWord(mods, word string) bool {
	for _, f := range strings.Fields(mods) {
		if f == word {
			return true
		}
	}
	return false
}
