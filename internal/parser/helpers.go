package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText returns node's source text, or "" for a nil node or an
// out-of-range span.
func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}
	return string(content[start:end])
}

// stripQuotes removes a single layer of matching quote characters
// ("'`) from s, used when turning a string-literal node into an import
// source (§4.3). A Python triple-quote delimiter (""" or ''') counts as one
// layer.
func stripQuotes(s string) string {
	for _, q := range []string{`"""`, "'''"} {
		if len(s) >= 6 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[3 : len(s)-3]
		}
	}
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

// findFirstChild returns the first direct child of node whose Kind is in
// types, or nil if none matches.
func findFirstChild(node *sitter.Node, types ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if _, ok := set[child.Kind()]; ok {
			return child
		}
	}
	return nil
}

// hasChildOfType reports whether node has a direct child of the given kind.
func hasChildOfType(node *sitter.Node, kind string) bool {
	return findFirstChild(node, kind) != nil
}

// hasParentOfType reports whether any ancestor of node has the given kind.
func hasParentOfType(node *sitter.Node, kind string) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return true
		}
	}
	return false
}

// closestParentOfType returns the nearest ancestor of node with the given
// kind, or nil.
func closestParentOfType(node *sitter.Node, kind string) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return p
		}
	}
	return nil
}

// childByFieldNameAny tries each field name in order and returns the first
// non-nil match; useful where a grammar renamed a field across versions.
func childByFieldNameAny(node *sitter.Node, names ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for _, name := range names {
		if c := node.ChildByFieldName(name); c != nil {
			return c
		}
	}
	return nil
}

// lineRange returns the 1-based inclusive line range and 0-based column
// range for node, per the coordinate convention in §3.3.
func lineRange(node *sitter.Node) (lineStart, lineEnd, colStart, colEnd int) {
	start, end := node.StartPosition(), node.EndPosition()
	return int(start.Row) + 1, int(end.Row) + 1, int(start.Column), int(end.Column)
}

// extractIdentifiers collects the text of every descendant of node whose
// kind is "identifier" (used for destructuring-style binders); order
// follows source order.
func extractIdentifiers(node *sitter.Node, content []byte) []string {
	var names []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "identifier" {
			names = append(names, nodeText(n, content))
		}
		count := n.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return names
}

// isUppercaseFirst reports whether name's first byte is an uppercase ASCII
// letter, the Go export convention (§4.3).
func isUppercaseFirst(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// walkPreOrder performs a pre-order traversal of node's subtree, calling
// visit on each node including node itself. When visit returns false, that
// node's children are skipped (used to stop recursing into an
// export_statement after processing the export itself, §4.3.1).
func walkPreOrder(node *sitter.Node, visit func(n *sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		walkPreOrder(node.Child(i), visit)
	}
}

// firstStringLiteralStatement scans the direct statement children of body
// for the first string/concatenated-string expression statement, skipping
// any leading pass_statement nodes (Python docstring extraction, §4.3.1,
// §9 decision 3).
func firstStringLiteralStatement(body *sitter.Node, content []byte) (string, bool) {
	if body == nil {
		return "", false
	}
	count := body.ChildCount()
	for i := uint(0); i < count; i++ {
		stmt := body.Child(i)
		if stmt == nil {
			continue
		}
		switch stmt.Kind() {
		case "pass_statement", "comment":
			continue
		case "expression_statement":
			if stmt.ChildCount() == 0 {
				return "", false
			}
			expr := stmt.Child(0)
			switch expr.Kind() {
			case "string", "concatenated_string":
				return nodeText(expr, content), true
			}
			return "", false
		default:
			return "", false
		}
	}
	return "", false
}

// trimDocMarkers trims leading and trailing whitespace from a doc-comment
// block. Comment markers such as "/**" and "*/" are left in place, so a
// block comment keeps its source form.
func trimDocMarkers(s string) string {
	return strings.TrimRight(strings.TrimLeft(s, " \t\n"), " \t\n")
}
