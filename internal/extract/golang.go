package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// goExtractor extracts top-level Go declarations from a tree-sitter parse.
// Function bodies are not descended into; locals are not symbols.
type goExtractor struct{}

func (goExtractor) Language() string { return "go" }

func (goExtractor) Extract(path string, content []byte) (*Result, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	lines := splitLines(content)
	res := &Result{Imports: goImports(tree.RootNode(), content)}

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		switch decl.Type() {
		case "function_declaration", "method_declaration":
			if name := decl.ChildByFieldName("name"); name != nil {
				line := int(decl.StartPoint().Row) + 1
				res.Symbols = append(res.Symbols, Symbol{
					Name: name.Content(content), Kind: "function", Line: line,
					Signature: signatureAt(lines, line),
				})
			}
		case "type_declaration":
			collectGoTypeSpecs(decl, content, lines, res)
		case "const_declaration":
			collectGoValueSpecs(decl, "const_spec", "constant", content, lines, res)
		case "var_declaration":
			collectGoValueSpecs(decl, "var_spec", "property", content, lines, res)
		}
	}

	res.References = textualReferences(lines, localNames(res.Symbols))
	return res, nil
}

// goTypeKinds maps a type spec's underlying type onto the shared kind set.
var goTypeKinds = map[string]string{
	"struct_type":    "class",
	"interface_type": "interface",
}

func collectGoTypeSpecs(decl *sitter.Node, content []byte, lines []string, res *Result) {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		spec := decl.NamedChild(i)
		if spec.Type() != "type_spec" && spec.Type() != "type_alias" {
			continue
		}
		name := spec.ChildByFieldName("name")
		if name == nil {
			continue
		}
		kind := "typealias"
		if t := spec.ChildByFieldName("type"); t != nil {
			if k, ok := goTypeKinds[t.Type()]; ok {
				kind = k
			}
		}
		line := int(spec.StartPoint().Row) + 1
		res.Symbols = append(res.Symbols, Symbol{
			Name: name.Content(content), Kind: kind, Line: line,
			Signature: signatureAt(lines, line),
		})
	}
}

func collectGoValueSpecs(decl *sitter.Node, specType, kind string, content []byte, lines []string, res *Result) {
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		spec := decl.NamedChild(i)
		if spec.Type() != specType {
			continue
		}
		for j := 0; j < int(spec.NamedChildCount()); j++ {
			id := spec.NamedChild(j)
			if id.Type() != "identifier" {
				continue
			}
			line := int(id.StartPoint().Row) + 1
			res.Symbols = append(res.Symbols, Symbol{
				Name: id.Content(content), Kind: kind, Line: line,
				Signature: signatureAt(lines, line),
			})
		}
	}
}

// goImports reads import specs, trimming the surrounding quotes.
func goImports(root *sitter.Node, content []byte) []string {
	var imports []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "import_spec" {
				if p := child.ChildByFieldName("path"); p != nil {
					path := p.Content(content)
					if len(path) >= 2 {
						path = path[1 : len(path)-1]
					}
					imports = append(imports, path)
				}
				continue
			}
			if child.Type() == "import_declaration" || child.Type() == "import_spec_list" {
				walk(child)
			}
		}
	}
	walk(root)
	return imports
}
