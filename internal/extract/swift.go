package extract

import "regexp"

// swiftExtractor is a line-oriented regex extractor for Swift sources.
type swiftExtractor struct{}

func (swiftExtractor) Language() string { return "swift" }

// swiftAttrs matches property wrappers and attributes (@Published,
// @MainActor, @available(...)) that may precede a declaration.
const swiftAttrs = `(?:@\w+(?:\([^)]*\))?\s+)*`

var (
	swiftTypePattern = regexp.MustCompile(
		`^\s*` + swiftAttrs + `(?:(?:public|private|internal|fileprivate|open|final|indirect)\s+)*(class|struct|enum|protocol|actor|extension)\s+(\w+)(.*)`)
	swiftFuncPattern = regexp.MustCompile(
		`^\s*` + swiftAttrs + `(?:(?:public|private|internal|fileprivate|open|override|static|class|final|mutating|convenience|required)\s+)*func\s+(\w+)`)
	swiftPropPattern = regexp.MustCompile(
		`^\s*` + swiftAttrs + `(?:(?:public|private|internal|fileprivate|open|override|static|class|final|lazy|weak|unowned)\s+)*(?:let|var)\s+(\w+)`)
	swiftAliasPattern = regexp.MustCompile(
		`^\s*(?:(?:public|private|internal|fileprivate)\s+)*typealias\s+(\w+)`)
)

// swiftKinds maps Swift declaration keywords onto the shared kind set.
var swiftKinds = map[string]string{
	"class":    "class",
	"struct":   "class",
	"actor":    "class",
	"enum":     "enum",
	"protocol": "interface",
}

func (swiftExtractor) Extract(path string, content []byte) (*Result, error) {
	lines := splitLines(content)
	res := &Result{Imports: scanImports(lines)}

	for i, line := range lines {
		lineNo := i + 1
		if m := swiftTypePattern.FindStringSubmatch(line); m != nil {
			keyword, name, rest := m[1], m[2], m[3]
			if keyword == "extension" {
				// An extension is its own symbol, linked to the type it extends.
				res.Symbols = append(res.Symbols, Symbol{
					Name:      name + "+Extension",
					Kind:      "object",
					Line:      lineNo,
					Signature: signatureAt(lines, lineNo),
					Parents: append([]Edge{{ParentName: name, Kind: "extends"}},
						parseParents(supertypeList(rest))...),
				})
				continue
			}
			res.Symbols = append(res.Symbols, Symbol{
				Name:      name,
				Kind:      swiftKinds[keyword],
				Line:      lineNo,
				Signature: signatureAt(lines, lineNo),
				Parents:   parseParents(supertypeList(rest)),
			})
			continue
		}
		if m := swiftFuncPattern.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[1], Kind: "function", Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
			continue
		}
		if m := swiftAliasPattern.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[1], Kind: "typealias", Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
			continue
		}
		if m := swiftPropPattern.FindStringSubmatch(line); m != nil {
			res.Symbols = append(res.Symbols, Symbol{
				Name: m[1], Kind: "property", Line: lineNo,
				Signature: signatureAt(lines, lineNo),
			})
		}
	}

	res.References = textualReferences(lines, localNames(res.Symbols))
	return res, nil
}
