package astindex

import (
	"fmt"
)

const (
	// maxAncestorLevels bounds the upward walk. Inheritance chains deeper
	// than this are cycles the visited set will have caught anyway.
	maxAncestorLevels = 10
	// maxDescendantDepth bounds the downward tree.
	maxDescendantDepth = 5
	// descendantsPerNode caps fan-out per tree node.
	descendantsPerNode = 20
)

// Hierarchy is the inheritance neighborhood of one type: the upward chain
// of declared parents and the downward tree of known subtypes.
type Hierarchy struct {
	Symbol *SymbolInfo `json:"symbol"`
	// Ancestors holds parent links per level: index 0 is the direct
	// parents, index 1 their parents, and so on. Parent names are as
	// declared; a parent outside the indexed tree still appears here but
	// contributes no further levels.
	Ancestors [][]ParentLink `json:"ancestors,omitempty"`
	// Descendants are the known subtypes, recursively.
	Descendants []*HierarchyNode `json:"descendants,omitempty"`
}

// HierarchyNode is one subtype in the descendant tree.
type HierarchyNode struct {
	Symbol   *SymbolInfo      `json:"symbol"`
	Children []*HierarchyNode `json:"children,omitempty"`
}

// Hierarchy resolves the inheritance hierarchy around the named type.
// Inheritance edges are name-keyed, so two unrelated types with the same
// name will merge; that is the documented trade-off of the soft graph.
func (q *QueryBuilder) Hierarchy(name string) (*Hierarchy, error) {
	syms, err := q.store.SymbolsByName(name, "", 5)
	if err != nil {
		return nil, err
	}
	var target *SymbolInfo
	for _, s := range syms {
		if classLike(s.Kind) {
			target = s
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("type %q not found", name)
	}

	h := &Hierarchy{Symbol: target}

	// Upward: breadth-first over parent names with a visited guard, since
	// name-keyed edges can form cycles that real type systems cannot.
	visited := map[string]bool{name: true}
	level := []string{name}
	for i := 0; i < maxAncestorLevels; i++ {
		var links []ParentLink
		var next []string
		for _, n := range level {
			parents, err := q.store.ParentsOf(n)
			if err != nil {
				return nil, err
			}
			for _, p := range parents {
				if visited[p.ParentName] {
					continue
				}
				visited[p.ParentName] = true
				links = append(links, *p)
				next = append(next, p.ParentName)
			}
		}
		if len(links) == 0 {
			break
		}
		h.Ancestors = append(h.Ancestors, links)
		level = next
	}

	// Downward: recursive tree over implementations.
	seen := map[string]bool{name: true}
	h.Descendants, err = q.descendants(name, maxDescendantDepth, seen)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (q *QueryBuilder) descendants(name string, depth int, seen map[string]bool) ([]*HierarchyNode, error) {
	if depth == 0 {
		return nil, nil
	}
	impls, err := q.store.FindImplementations(name, descendantsPerNode)
	if err != nil {
		return nil, err
	}
	var nodes []*HierarchyNode
	for _, impl := range impls {
		if seen[impl.Name] {
			continue
		}
		seen[impl.Name] = true
		node := &HierarchyNode{Symbol: impl}
		node.Children, err = q.descendants(impl.Name, depth-1, seen)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// classLike reports whether a symbol kind can participate in an
// inheritance hierarchy.
func classLike(kind string) bool {
	switch kind {
	case "class", "interface", "object", "enum", "annotation":
		return true
	}
	return false
}
