// Package extract turns Rust source text into normalized declaration records
// that can be compared across a source file and its documentation samples.
package extract

import "fmt"

// ItemType identifies the kind of declaration an Item represents.
type ItemType int

const (
	Struct ItemType = iota
	Enum
	Trait
	TraitMethod
	Function
)

// String returns the type name.
func (t ItemType) String() string {
	switch t {
	case Struct:
		return "Struct"
	case Enum:
		return "Enum"
	case Trait:
		return "Trait"
	case TraitMethod:
		return "TraitMethod"
	case Function:
		return "Function"
	default:
		return fmt.Sprintf("ItemType(%d)", int(t))
	}
}

// Kind is the declaration kind. For trait methods, Trait holds the owning
// trait's name, so methods of different traits are different kinds.
type Kind struct {
	Type  ItemType
	Trait string
}

// String renders the kind, e.g. "Struct" or "TraitMethod(Geometry)".
func (k Kind) String() string {
	if k.Type == TraitMethod {
		return fmt.Sprintf("TraitMethod(%s)", k.Trait)
	}
	return k.Type.String()
}

// Key is the identity of an Item across the two sides of a comparison.
type Key struct {
	Name string
	Kind Kind
}

// Item is one declaration extracted from Rust source.
type Item struct {
	Name string
	Kind Kind

	// Signature is the attribute-free declaration rendered for display.
	Signature string

	// Normalized is the attribute-free token sequence joined by single
	// spaces. Two items are structurally equal iff their Normalized forms are.
	Normalized string

	// Attributes holds the item's own outer attributes in source order.
	// Doc comments appear as #[doc = "..."].
	Attributes []string

	// Line is the 1-based line of the first occurrence of Name in the text
	// the item was extracted from. See lineOf.
	Line int
}

// Key returns the item's identity key.
func (i Item) Key() Key {
	return Key{Name: i.Name, Kind: i.Kind}
}

// Label returns a short human-readable label such as "struct Foo",
// "Geometry::generate_mesh" or "fn run".
func (i Item) Label() string {
	switch i.Kind.Type {
	case Struct:
		return "struct " + i.Name
	case Enum:
		return "enum " + i.Name
	case Trait:
		return "trait " + i.Name
	case TraitMethod:
		return i.Kind.Trait + "::" + i.Name
	case Function:
		return "fn " + i.Name
	default:
		return i.Name
	}
}
