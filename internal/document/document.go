// Package document exposes statement pages as positioned text.
//
// Coordinates are in points with the origin at the top-left corner of the page,
// matching the way statement geometry is measured on paper.
package document

import (
	"context"
	"fmt"
)

// Text is one run of characters placed on a page.
// Y is the baseline measured from the top edge.
type Text struct {
	X        float64
	Y        float64
	W        float64
	FontSize float64
	S        string
}

// Page holds the positioned text of a single page.
type Page struct {
	Number int
	Width  float64
	Height float64
	Texts  []Text
}

// Document is a read-only, page-addressable statement.
type Document interface {
	// NumPages returns the page count. It is always at least one.
	NumPages() int
	// Page returns page n, counting from 1.
	Page(ctx context.Context, n int) (Page, error)
	// Close releases the underlying file.
	Close() error
}

// Opener opens a statement by path.
type Opener func(path string) (Document, error)

// Memory is a Document backed by pages built in code.
type Memory struct {
	pages []Page
}

// NewMemory builds an in-memory document. Page numbers are assigned by position.
func NewMemory(pages ...Page) *Memory {
	out := make([]Page, len(pages))
	for i, p := range pages {
		p.Number = i + 1
		if p.Width == 0 {
			p.Width = LetterWidth
		}
		if p.Height == 0 {
			p.Height = LetterHeight
		}
		out[i] = p
	}
	return &Memory{pages: out}
}

// NumPages returns the page count.
func (m *Memory) NumPages() int { return len(m.pages) }

// Page returns page n, counting from 1.
func (m *Memory) Page(ctx context.Context, n int) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	if n < 1 || n > len(m.pages) {
		return Page{}, fmt.Errorf("page %d out of range 1..%d", n, len(m.pages))
	}
	return m.pages[n-1], nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Letter page size in points, used when a page does not declare its own.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0
)

// DefaultFontSize is the size Word uses.
const DefaultFontSize = 8.0

// Word places s with its left edge at x on the given baseline, sized as an
// average-width run of DefaultFontSize glyphs.
func Word(x, baseline float64, s string) Text {
	return Text{
		X:        x,
		Y:        baseline,
		W:        float64(len([]rune(s))) * DefaultFontSize * 0.5,
		FontSize: DefaultFontSize,
		S:        s,
	}
}
