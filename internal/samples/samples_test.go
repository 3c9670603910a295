package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for ExtractSamples / ExtractFences:
// - Extracts a single rust fence from surrounding prose
// - Extracts multiple rust fences in document order
// - Ignores fences tagged with other languages
// - Matches the info string exactly and case-sensitively
// - Ignores indented code blocks
// - Returns an empty list for documents without fences
// - Drops fences that are never closed
// - Preserves fence content verbatim, including blank lines
// - Handles tilde fences, longer fences and fences in blockquotes
// - Reports the document line where each sample starts

func TestExtractSamples_SingleBlock(t *testing.T) {
	t.Parallel()

	doc := "\n# Title\n\nSome text\n\n```rust\npub struct MyStruct {}\n```\n\nMore text\n"

	samples, err := ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "pub struct MyStruct {}\n", samples[0])
}

func TestExtractSamples_MultipleBlocksInOrder(t *testing.T) {
	t.Parallel()

	doc := "```rust\npub struct First {}\n```\n\ntext\n\n```rust\npub struct Second {}\n```\n"

	samples, err := ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Contains(t, samples[0], "First")
	assert.Contains(t, samples[1], "Second")
}

func TestExtractSamples_Tags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"other language", "```python\ndef foo():\n    pass\n```\n", 0},
		{"no tag", "```\npub struct A;\n```\n", 0},
		{"uppercase tag", "```Rust\npub struct A;\n```\n", 0},
		{"extra attributes", "```rust,ignore\npub struct A;\n```\n", 0},
		{"indented code block", "text\n\n    pub struct A;\n", 0},
		{"mixed", "```python\nx = 1\n```\n\n```rust\npub struct A;\n```\n", 1},
		{"tilde fence", "~~~rust\npub struct A;\n~~~\n", 1},
		{"no fences", "# Just a heading\n\nAnd a paragraph.\n", 0},
		{"empty document", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples, err := ExtractSamples(tt.doc)
			require.NoError(t, err)
			assert.Len(t, samples, tt.want)
		})
	}
}

func TestExtractSamples_UnterminatedFenceDropped(t *testing.T) {
	t.Parallel()

	doc := "```rust\npub struct Closed;\n```\n\n```rust\npub struct Open;\n"

	samples, err := ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Contains(t, samples[0], "Closed")
	assert.NotContains(t, samples[0], "Open")
}

func TestExtractSamples_VerbatimContent(t *testing.T) {
	t.Parallel()

	doc := "````rust\npub trait T {\n\n    fn f(&self);\n}\n```\nnot a closer\n````\n"

	samples, err := ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "pub trait T {\n\n    fn f(&self);\n}\n```\nnot a closer\n", samples[0])
}

func TestExtractSamples_Blockquote(t *testing.T) {
	t.Parallel()

	doc := "> ```rust\n> pub struct Quoted;\n> ```\n"

	samples, err := ExtractSamples(doc)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "pub struct Quoted;\n", samples[0])
}

func TestExtractFences_Lines(t *testing.T) {
	t.Parallel()

	doc := "# Spec\n\n```rust\npub struct A;\n```\n\nText.\n\n```rust\npub struct B;\n```\n"

	fences, err := ExtractFences(doc, Lang)
	require.NoError(t, err)
	require.Len(t, fences, 2)

	assert.Equal(t, 4, fences[0].Line)
	assert.Equal(t, 10, fences[1].Line)
	assert.Equal(t, Lang, fences[0].Lang)
}
