package extract

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxSnippetLen bounds the offending text quoted in a ParseError.
const maxSnippetLen = 40

// ParseError reports Rust text that is not syntactically valid.
type ParseError struct {
	Line    int // 1-based
	Column  int // 1-based, in bytes
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "syntax error: " + e.Message
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// newParseError describes the first ERROR or MISSING node under root.
func newParseError(root *sitter.Node, src []byte) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		return &ParseError{Message: "invalid syntax"}
	}

	pos := bad.StartPosition()
	perr := &ParseError{
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}

	if bad.IsMissing() {
		perr.Message = fmt.Sprintf("expected %s", strconv.Quote(bad.Kind()))
		return perr
	}

	snippet := strings.Join(strings.Fields(extractNodeText(bad, src)), " ")
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen] + "..."
	}
	if snippet == "" {
		perr.Message = "unexpected end of input"
	} else {
		perr.Message = "unexpected " + strconv.Quote(snippet)
	}
	return perr
}

// firstErrorNode returns the first node in document order that is an ERROR
// or MISSING node, descending only into subtrees that contain one.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
