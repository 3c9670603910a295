// Package compare diffs the declarations of a source file against the
// declarations found in its documentation samples.
package compare

import (
	"slices"
	"strings"

	"github.com/mvp-joe/spec-check/internal/extract"
)

// Result is the classified diff of one source/spec pair.
type Result struct {
	MissingInSpec       []extract.Item
	MissingInCode       []extract.Item
	SignatureMismatches []SignatureMismatch
	AttributeMismatches []AttributeMismatch
}

// SignatureMismatch pairs two items with the same key whose normalized
// forms differ.
type SignatureMismatch struct {
	Code extract.Item
	Spec extract.Item

	// FirstDiff is the rune offset of the first difference between the two
	// signatures, or nil when the signatures are identical.
	FirstDiff *int
}

// AttributeMismatch pairs two items with the same key whose filtered
// attribute sets differ.
type AttributeMismatch struct {
	Code extract.Item
	Spec extract.Item
}

// HasErrors reports whether any drift was found.
func (r *Result) HasErrors() bool {
	return len(r.MissingInSpec) > 0 ||
		len(r.MissingInCode) > 0 ||
		len(r.SignatureMismatches) > 0 ||
		len(r.AttributeMismatches) > 0
}

// Compare matches code and spec items by name and kind and classifies the
// differences. Attributes containing any of the ignored names are left out
// of the attribute comparison.
//
// Missing lists keep each side's order; mismatch lists follow code order.
// When a side has duplicate keys, the last item with that key is used for
// lookups.
func Compare(code, spec []extract.Item, ignored []string) *Result {
	codeByKey := index(code)
	specByKey := index(spec)

	result := &Result{
		MissingInSpec:       []extract.Item{},
		MissingInCode:       []extract.Item{},
		SignatureMismatches: []SignatureMismatch{},
		AttributeMismatches: []AttributeMismatch{},
	}

	for _, codeItem := range code {
		specItem, ok := specByKey[codeItem.Key()]
		if !ok {
			result.MissingInSpec = append(result.MissingInSpec, codeItem)
			continue
		}

		if codeItem.Normalized != specItem.Normalized {
			result.SignatureMismatches = append(result.SignatureMismatches, SignatureMismatch{
				Code:      codeItem,
				Spec:      specItem,
				FirstDiff: FirstDiff(codeItem.Signature, specItem.Signature),
			})
		}

		codeAttrs := FilterAttributes(codeItem.Attributes, ignored)
		specAttrs := FilterAttributes(specItem.Attributes, ignored)
		if !slices.Equal(codeAttrs, specAttrs) {
			result.AttributeMismatches = append(result.AttributeMismatches, AttributeMismatch{
				Code: codeItem,
				Spec: specItem,
			})
		}
	}

	for _, specItem := range spec {
		if _, ok := codeByKey[specItem.Key()]; !ok {
			result.MissingInCode = append(result.MissingInCode, specItem)
		}
	}

	return result
}

func index(items []extract.Item) map[extract.Key]extract.Item {
	m := make(map[extract.Key]extract.Item, len(items))
	for _, item := range items {
		m[item.Key()] = item
	}
	return m
}

// FirstDiff returns the rune offset of the first differing character of a
// and b. If one is a prefix of the other it returns the shorter length; if
// they are equal it returns nil.
func FirstDiff(a, b string) *int {
	ra, rb := []rune(a), []rune(b)

	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}

	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			return &i
		}
	}

	if len(ra) != len(rb) {
		return &n
	}
	return nil
}

// FilterAttributes drops every attribute that contains one of the ignored
// names, trims the rest and sorts them. Empty ignored names are skipped.
func FilterAttributes(attrs, ignored []string) []string {
	kept := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		if !isIgnored(attr, ignored) {
			kept = append(kept, strings.TrimSpace(attr))
		}
	}
	slices.Sort(kept)
	return kept
}

// isIgnored matches "doc" against "#[doc = ...]", "#[doc(hidden)]" and any
// other attribute whose text contains it.
func isIgnored(attr string, ignored []string) bool {
	for _, name := range ignored {
		if name == "" {
			continue
		}
		if strings.Contains(attr, name) {
			return true
		}
	}
	return false
}
