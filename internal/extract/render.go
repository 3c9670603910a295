package extract

import (
	"strconv"
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// strippedKinds are never rendered into signatures.
var strippedKinds = map[string]bool{
	"attribute_item":       true,
	"inner_attribute_item": true,
	"line_comment":         true,
	"block_comment":        true,
}

// atomicKinds are rendered as a single token even though the grammar gives
// them children.
var atomicKinds = map[string]bool{
	"string_literal":     true,
	"raw_string_literal": true,
	"char_literal":       true,
	"integer_literal":    true,
	"float_literal":      true,
	"boolean_literal":    true,
	"lifetime":           true,
	"label":              true,
	"metavariable":       true,
	"shebang":            true,
}

// collectTokens appends the leaf tokens of node to out, skipping attributes
// and comments at every depth.
func collectTokens(node *sitter.Node, source []byte, out []string) []string {
	if node == nil || strippedKinds[node.Kind()] {
		return out
	}

	if node.ChildCount() == 0 || atomicKinds[node.Kind()] {
		if text := extractNodeText(node, source); text != "" {
			out = append(out, text)
		}
		return out
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		out = collectTokens(node.Child(i), source, out)
	}
	return out
}

// normalize joins tokens with single spaces. The result does not depend on
// the formatting of the original text.
func normalize(tokens []string) string {
	return strings.Join(tokens, " ")
}

// pretty joins tokens with Rust-style spacing, e.g.
// "pub struct Foo<T> { pub x: Vec<T> }".
func pretty(tokens []string) string {
	var sb strings.Builder
	prev := ""
	for _, tok := range tokens {
		if prev != "" && spaceBetween(prev, tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
		prev = tok
	}
	return sb.String()
}

func spaceBetween(prev, next string) bool {
	switch prev {
	case "(", "[", "<", "::", "#", ".", "&", "!", "$":
		return false
	case "*":
		if next == "const" || next == "mut" {
			return false
		}
	}

	switch next {
	case ",", ";", ")", "]", ".", "?", ":", "::", ">":
		return false
	case "}":
		return prev != "{"
	case "(":
		return !(isWord(prev) || prev == ">" || prev == ")" || prev == "]")
	case "[":
		return !(isWord(prev) || prev == ")" || prev == "]")
	case "<", "!":
		return !isWord(prev)
	}
	return true
}

// isWord reports whether tok is an identifier, keyword or literal rather
// than punctuation.
func isWord(tok string) bool {
	for _, r := range tok {
		return r == '_' || r == '\'' || r == '"' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// renderAttribute renders an attribute_item, including its own tokens.
func renderAttribute(node *sitter.Node, source []byte) string {
	var tokens []string
	for i := uint(0); i < node.ChildCount(); i++ {
		tokens = collectTokens(node.Child(i), source, tokens)
	}
	return pretty(tokens)
}

// docAttribute converts an outer doc comment into the attribute Rust
// desugars it to. ok is false for regular and inner comments.
func docAttribute(node *sitter.Node, source []byte) (attr string, ok bool) {
	text := strings.TrimRight(extractNodeText(node, source), "\r\n")

	var body string
	switch node.Kind() {
	case "line_comment":
		if !strings.HasPrefix(text, "///") || strings.HasPrefix(text, "////") {
			return "", false
		}
		body = strings.TrimPrefix(text, "///")
	case "block_comment":
		if !strings.HasPrefix(text, "/**") || strings.HasPrefix(text, "/***") || text == "/**/" {
			return "", false
		}
		body = strings.TrimSuffix(strings.TrimPrefix(text, "/**"), "*/")
	default:
		return "", false
	}

	return "#[doc = " + strconv.Quote(body) + "]", true
}
