package extract

import "strings"

// parseParents splits a supertype list ("Base(), Listener, Comparable<Foo>")
// into inheritance edges. Commas inside generics or argument lists do not
// split. An entry carrying a constructor call is a superclass (extends);
// everything else is implements.
func parseParents(list string) []Edge {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}

	var parts []string
	depth := 0
	start := 0
	for i, r := range list {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			// The > of a function type arrow closes nothing.
			if r == '>' && i > 0 && list[i-1] == '-' {
				continue
			}
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, list[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, list[start:])

	var edges []Edge
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Delegation ("Base by impl") names only the supertype.
		if i := strings.Index(p, " by "); i >= 0 {
			p = p[:i]
		}
		kind := "implements"
		if i := strings.IndexByte(p, '('); i >= 0 {
			p = p[:i]
			kind = "extends"
		}
		// Strip generic arguments from the parent name.
		if i := strings.IndexByte(p, '<'); i >= 0 {
			p = p[:i]
		}
		p = strings.TrimSpace(p)
		if p == "" || !isIdentifierish(p) {
			continue
		}
		edges = append(edges, Edge{ParentName: p, Kind: kind})
	}
	return edges
}

func isIdentifierish(s string) bool {
	for _, r := range s {
		if !(r == '.' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// supertypeList isolates the text between the ':' after a declaration name
// and the opening brace (or end of line). The ':' must sit at depth zero so
// primary constructor parameters ("class Foo(val a: Int) : Base") do not
// trigger a false match.
func supertypeList(rest string) string {
	depth := 0
	for i, r := range rest {
		switch r {
		case '(', '<':
			depth++
		case ')', '>':
			if r == '>' && i > 0 && rest[i-1] == '-' {
				continue
			}
			if depth > 0 {
				depth--
			}
		case '{':
			if depth == 0 {
				return ""
			}
		case ':':
			if depth == 0 {
				list := rest[i+1:]
				if j := strings.IndexByte(list, '{'); j >= 0 {
					list = list[:j]
				}
				// A where clause is not part of the supertype list.
				if j := strings.Index(list, " where "); j >= 0 {
					list = list[:j]
				}
				return list
			}
		}
	}
	return ""
}
