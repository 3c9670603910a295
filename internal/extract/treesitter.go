package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// nodeName returns the text of the node's "name" field.
func nodeName(node *sitter.Node, source []byte) string {
	return extractNodeText(node.ChildByFieldName("name"), source)
}

// lineOf returns the 1-based line of the first occurrence of ident in source,
// or 1 when it does not occur.
//
// This is a text search, not a position lookup: an earlier occurrence of the
// same identifier (in a comment, or inside another item) wins. Only use the
// result for diagnostics.
func lineOf(source, ident string) int {
	idx := strings.Index(source, ident)
	if idx < 0 {
		return 1
	}
	return strings.Count(source[:idx], "\n") + 1
}
