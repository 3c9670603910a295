// Package samples extracts fenced code samples from Markdown documents.
package samples

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Lang is the info string that marks a Rust sample.
const Lang = "rust"

// Fence is one fenced code block whose info string matched.
type Fence struct {
	Lang string
	Code string

	// Line is the 1-based line of the document at which Code starts.
	Line int
}

// ExtractSamples returns the content of every ```rust fence in doc, in
// document order.
func ExtractSamples(doc string) ([]string, error) {
	fences, err := ExtractFences(doc, Lang)
	if err != nil {
		return nil, err
	}

	samples := make([]string, 0, len(fences))
	for _, f := range fences {
		samples = append(samples, f.Code)
	}
	return samples, nil
}

// ExtractFences returns every fenced code block in doc whose full info string
// equals lang (case-sensitive, so "rust,ignore" does not match "rust").
// Fences that are never closed are dropped.
func ExtractFences(doc, lang string) ([]Fence, error) {
	source := []byte(doc)
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	fences := []Fence{}
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		block, ok := n.(*ast.FencedCodeBlock)
		if !ok || block.Info == nil {
			return ast.WalkContinue, nil
		}

		info := block.Info.Segment
		if strings.TrimSpace(string(info.Value(source))) != lang {
			return ast.WalkSkipChildren, nil
		}

		openStart := lineStart(source, info.Start)
		contentEnd := lineEnd(source, info.Start)

		var sb strings.Builder
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
			contentEnd = seg.Stop
		}

		if !isClosed(source, openStart, info.Start, contentEnd) {
			return ast.WalkSkipChildren, nil
		}

		fences = append(fences, Fence{
			Lang: lang,
			Code: sb.String(),
			Line: strings.Count(doc[:openStart], "\n") + 2,
		})
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}

// isClosed reports whether the line following the fence content is a
// closing fence matching the opening one. openStart is the start of the
// opening line and infoStart the offset of its info string.
func isClosed(source []byte, openStart, infoStart, contentEnd int) bool {
	opening := strings.TrimRight(string(source[openStart:infoStart]), " \t")
	char, width := fenceRun(opening)
	if width == 0 || contentEnd >= len(source) {
		return false
	}

	next := string(source[contentEnd:lineEnd(source, contentEnd)])
	next = strings.TrimLeft(strings.TrimRight(next, "\r\n"), " \t>")

	closing := strings.TrimLeft(next, string(char))
	return len(next)-len(closing) >= width && strings.TrimSpace(closing) == ""
}

// fenceRun returns the fence character and length at the end of the
// opening line prefix, e.g. ('`', 4) for "> ````".
func fenceRun(prefix string) (byte, int) {
	if prefix == "" {
		return 0, 0
	}
	char := prefix[len(prefix)-1]
	if char != '`' && char != '~' {
		return 0, 0
	}
	width := len(prefix) - len(strings.TrimRight(prefix, string(char)))
	return char, width
}

// lineStart returns the offset of the first byte of the line containing pos.
func lineStart(source []byte, pos int) int {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the newline ending the line that
// contains pos, or len(source).
func lineEnd(source []byte, pos int) int {
	for pos < len(source) {
		if source[pos] == '\n' {
			return pos + 1
		}
		pos++
	}
	return pos
}
