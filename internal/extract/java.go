package extract

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// javaExtractor extracts Java declarations from a tree-sitter parse.
// References stay textual, matching the soft name-keyed reference model.
type javaExtractor struct{}

func (javaExtractor) Language() string { return "java" }

// javaDeclKinds maps declaration node types onto the shared kind set.
var javaDeclKinds = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "class",
	"annotation_type_declaration": "annotation",
	"method_declaration":          "function",
}

func (javaExtractor) Extract(path string, content []byte) (*Result, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	lines := splitLines(content)
	res := &Result{Imports: scanImports(lines)}
	collectJavaSymbols(tree.RootNode(), content, lines, res)

	res.References = textualReferences(lines, localNames(res.Symbols))
	res.ResourceUsages = scanResourceUsages(lines)
	return res, nil
}

func collectJavaSymbols(n *sitter.Node, content []byte, lines []string, res *Result) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		nodeType := child.Type()

		if kind, ok := javaDeclKinds[nodeType]; ok {
			if name := child.ChildByFieldName("name"); name != nil {
				line := int(child.StartPoint().Row) + 1
				res.Symbols = append(res.Symbols, Symbol{
					Name:      name.Content(content),
					Kind:      kind,
					Line:      line,
					Signature: signatureAt(lines, line),
					Parents:   javaSupertypes(child, content),
				})
			}
		}
		if nodeType == "field_declaration" {
			collectJavaFields(child, content, lines, res)
		}

		collectJavaSymbols(child, content, lines, res)
	}
}

// collectJavaFields records each declarator of a field declaration.
func collectJavaFields(n *sitter.Node, content []byte, lines []string, res *Result) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil {
			continue
		}
		line := int(child.StartPoint().Row) + 1
		res.Symbols = append(res.Symbols, Symbol{
			Name:      name.Content(content),
			Kind:      "property",
			Line:      line,
			Signature: signatureAt(lines, line),
		})
	}
}

// javaSupertypes reads the extends/implements clauses of a declaration.
func javaSupertypes(n *sitter.Node, content []byte) []Edge {
	var edges []Edge
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "superclass":
			for _, name := range typeNamesIn(child, content) {
				edges = append(edges, Edge{ParentName: name, Kind: "extends"})
			}
		case "super_interfaces":
			for _, name := range typeNamesIn(child, content) {
				edges = append(edges, Edge{ParentName: name, Kind: "implements"})
			}
		case "extends_interfaces":
			for _, name := range typeNamesIn(child, content) {
				edges = append(edges, Edge{ParentName: name, Kind: "extends"})
			}
		}
	}
	return edges
}

// typeNamesIn collects the type names directly beneath a supertype clause,
// with generic arguments stripped. Type arguments are not descended into, so
// Comparable<Foo> yields only Comparable.
func typeNamesIn(n *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "type_list":
			names = append(names, typeNamesIn(child, content)...)
		default:
			if name := baseTypeName(child, content); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// baseTypeName returns the name of one type node, unwrapping generics.
func baseTypeName(n *sitter.Node, content []byte) string {
	switch n.Type() {
	case "type_identifier", "scoped_type_identifier":
		return n.Content(content)
	case "generic_type":
		if n.NamedChildCount() > 0 {
			return baseTypeName(n.NamedChild(0), content)
		}
	}
	return ""
}
