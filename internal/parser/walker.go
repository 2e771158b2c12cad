package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// parseTree runs a single non-incremental parse and returns the resulting
// tree, or nil if the grammar failed to produce one (§4.2).
func parseTree(handle *ParserHandle, content []byte) *sitter.Tree {
	return handle.Parser.Parse(content, nil)
}

// collectSyntaxErrors walks the tree pre-order and emits one recoverable
// ParseError for each ERROR node and each missing node, per §4.2.
func collectSyntaxErrors(root *sitter.Node) []ParseError {
	var errs []ParseError
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}

		if node.IsMissing() {
			pos := node.StartPosition()
			errs = append(errs, ParseError{
				Message:     fmt.Sprintf("Missing %s", node.Kind()),
				Line:        int(pos.Row) + 1,
				Column:      int(pos.Column),
				Recoverable: true,
			})
		} else if node.Kind() == "ERROR" {
			pos := node.StartPosition()
			errs = append(errs, ParseError{
				Message:     fmt.Sprintf("Syntax error: unexpected %s", node.Kind()),
				Line:        int(pos.Row) + 1,
				Column:      int(pos.Column),
				Recoverable: true,
			})
		}

		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(node.Child(i))
		}
	}

	walk(root)
	return errs
}
