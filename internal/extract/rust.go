package extract

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

var rustLanguage = sitter.NewLanguage(rust.Language())

// Extract parses Rust source text and returns its declarations in source
// order: structs, enums, traits (each followed by its methods) and free
// functions at module scope, including inline module bodies.
//
// Without includePrivate only items declared exactly `pub` are returned;
// pub(crate) and friends count as private. Methods of an included trait are
// always returned.
//
// Extract returns a *ParseError when source is not valid Rust.
func Extract(source string, includePrivate bool) ([]Item, error) {
	src := []byte(source)

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(rustLanguage); err != nil {
		return nil, fmt.Errorf("failed to load rust grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, &ParseError{Message: "parser produced no syntax tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, newParseError(root, src)
	}

	c := &collector{
		text:           source,
		source:         src,
		includePrivate: includePrivate,
		items:          []Item{},
	}
	c.visitScope(root)

	return c.items, nil
}

// collector accumulates items during a single Extract call.
type collector struct {
	text           string
	source         []byte
	includePrivate bool
	items          []Item
}

// visitScope visits the items of a module-level scope: the file root or the
// body of an inline mod. Attributes and doc comments are buffered until the
// item they precede.
func (c *collector) visitScope(scope *sitter.Node) {
	var pending []string

	for i := uint(0); i < scope.ChildCount(); i++ {
		child := scope.Child(i)

		switch child.Kind() {
		case "attribute_item":
			pending = append(pending, renderAttribute(child, c.source))
			continue
		case "line_comment", "block_comment":
			if attr, ok := docAttribute(child, c.source); ok {
				pending = append(pending, attr)
			}
			continue
		case "struct_item":
			if c.shouldInclude(child) {
				c.emit(child, Kind{Type: Struct}, pending)
			}
		case "enum_item":
			if c.shouldInclude(child) {
				c.emit(child, Kind{Type: Enum}, pending)
			}
		case "function_item":
			if c.shouldInclude(child) {
				c.emit(child, Kind{Type: Function}, pending)
			}
		case "trait_item":
			if c.shouldInclude(child) {
				c.visitTrait(child, pending)
			}
		case "mod_item":
			if body := child.ChildByFieldName("body"); body != nil {
				c.visitScope(body)
			}
		}

		pending = nil
	}
}

// visitTrait emits the trait and one TraitMethod per method in its body.
// Associated consts, types and macro invocations are skipped.
func (c *collector) visitTrait(node *sitter.Node, attrs []string) {
	traitItem, ok := c.emit(node, Kind{Type: Trait}, attrs)
	if !ok {
		return
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}

	methodKind := Kind{Type: TraitMethod, Trait: traitItem.Name}
	var pending []string
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)

		switch child.Kind() {
		case "attribute_item":
			pending = append(pending, renderAttribute(child, c.source))
			continue
		case "line_comment", "block_comment":
			if attr, ok := docAttribute(child, c.source); ok {
				pending = append(pending, attr)
			}
			continue
		case "function_signature_item", "function_item":
			c.emit(child, methodKind, pending)
		}

		pending = nil
	}
}

// emit builds an Item for node and appends it. Nodes without a name are
// skipped.
func (c *collector) emit(node *sitter.Node, kind Kind, attrs []string) (Item, bool) {
	name := nodeName(node, c.source)
	if name == "" {
		return Item{}, false
	}

	tokens := collectTokens(node, c.source, nil)
	item := Item{
		Name:       name,
		Kind:       kind,
		Signature:  pretty(tokens),
		Normalized: normalize(tokens),
		Attributes: append([]string{}, attrs...),
		Line:       lineOf(c.text, name),
	}
	c.items = append(c.items, item)
	return item, true
}

// shouldInclude applies the visibility gate.
func (c *collector) shouldInclude(node *sitter.Node) bool {
	return c.includePrivate || isPublic(node, c.source)
}

// isPublic reports whether node carries exactly the `pub` visibility.
func isPublic(node *sitter.Node, source []byte) bool {
	vis := findChildByType(node, "visibility_modifier")
	if vis == nil {
		return false
	}
	return strings.TrimSpace(extractNodeText(vis, source)) == "pub"
}
