// Package extractor cuts a rectangular region of a page into a grid of cell text
// using fixed column boundaries.
package extractor

import (
	"sort"
	"strings"
	"unicode/utf8"

	"edocta/edocta-csv/internal/document"
)

// Region is a rectangle in points, origin top-left.
type Region struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Contains reports whether the point lies inside the region.
func (r Region) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// RawRow is one physical line of a table, one entry per column.
type RawRow []string

// Cell returns column i, or "" if the row is shorter.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Blank reports whether every cell is empty.
func (r RawRow) Blank() bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}

// Extractor groups positioned text into rows and columns.
type Extractor struct {
	// RowTolerance is the largest vertical distance, in points, between glyph
	// centres that still belong to the same line.
	RowTolerance float64
	// GapFactor times the font size is the horizontal gap that becomes a space.
	GapFactor float64
	// AdvanceFactor times the font size is the width assumed per rune when the
	// document reports none, as it does for fonts without a Widths array.
	AdvanceFactor float64
}

// New returns an Extractor tuned for typical statement typography.
func New() *Extractor {
	return &Extractor{RowTolerance: 3.0, GapFactor: 0.2, AdvanceFactor: 0.5}
}

type glyph struct {
	document.Text
	w      float64
	cx, cy float64
	space  bool
}

type line struct {
	y      float64
	glyphs []glyph
}

// Extract returns the rows of the single table inside region. Boundaries are
// ascending x positions; n boundaries yield n+1 columns. A region with no text
// yields nil.
func (e *Extractor) Extract(page document.Page, region Region, boundaries []float64) []RawRow {
	lines := e.lines(page, region)
	if len(lines) == 0 {
		return nil
	}

	bounds := append([]float64(nil), boundaries...)
	sort.Float64s(bounds)

	rows := make([]RawRow, 0, len(lines))
	for _, ln := range lines {
		cols := make([][]glyph, len(bounds)+1)
		for _, g := range ln.glyphs {
			idx := sort.Search(len(bounds), func(i int) bool { return bounds[i] > g.cx })
			cols[idx] = append(cols[idx], g)
		}
		row := make(RawRow, len(cols))
		for i, c := range cols {
			row[i] = e.join(c)
		}
		if !row.Blank() {
			rows = append(rows, row)
		}
	}
	return rows
}

// ExtractText returns the text inside region, one line per row.
func (e *Extractor) ExtractText(page document.Page, region Region) string {
	lines := e.lines(page, region)
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if s := e.join(ln.glyphs); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

func (e *Extractor) lines(page document.Page, region Region) []line {
	var glyphs []glyph
	inked := false
	for _, t := range page.Texts {
		if t.S == "" {
			continue
		}
		w := t.W
		if w <= 0 {
			w = t.FontSize * e.AdvanceFactor * float64(utf8.RuneCountInString(t.S))
		}
		g := glyph{Text: t, w: w, cx: t.X + w/2, cy: t.Y - t.FontSize/2, space: strings.TrimSpace(t.S) == ""}
		if region.Contains(g.cx, g.cy) {
			glyphs = append(glyphs, g)
			inked = inked || !g.space
		}
	}
	if !inked {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].cy < glyphs[j].cy })

	var lines []line
	for _, g := range glyphs {
		if n := len(lines); n > 0 && g.cy-lines[n-1].y <= e.RowTolerance {
			lines[n-1].glyphs = append(lines[n-1].glyphs, g)
			continue
		}
		lines = append(lines, line{y: g.cy, glyphs: []glyph{g}})
	}

	kept := lines[:0]
	for _, ln := range lines {
		if !ln.blank() {
			gs := ln.glyphs
			sort.SliceStable(gs, func(a, b int) bool { return gs[a].X < gs[b].X })
			kept = append(kept, ln)
		}
	}
	return kept
}

func (ln line) blank() bool {
	for _, g := range ln.glyphs {
		if !g.space {
			return false
		}
	}
	return true
}

// join writes glyphs left to right. A space glyph always breaks words, so text
// from zero-width fonts, whose glyphs share one x, still splits correctly.
func (e *Extractor) join(glyphs []glyph) string {
	if len(glyphs) == 0 {
		return ""
	}
	var b strings.Builder
	prevEnd := 0.0
	for i, g := range glyphs {
		switch {
		case g.space:
			b.WriteByte(' ')
		case i > 0 && g.X-prevEnd > e.GapFactor*g.FontSize:
			b.WriteByte(' ')
			b.WriteString(g.S)
		default:
			b.WriteString(g.S)
		}
		prevEnd = g.X + g.w
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
