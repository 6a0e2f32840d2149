package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edocta/edocta-csv/internal/document"
)

var (
	tableRegion = Region{Top: 100, Left: 10, Bottom: 750, Right: 600}
	boundaries  = []float64{60, 300, 400}
)

func TestExtract_Grid(t *testing.T) {
	page := document.Page{Texts: []document.Text{
		document.Word(20, 130, "05/ENE"),
		document.Word(70, 130, "PAGO"),
		document.Word(100, 130, "TARJETA"),
		document.Word(320, 130, "1,200.00"),
		// same line, slightly shifted baseline
		document.Word(420, 131.5, "3,000.00"),
		document.Word(70, 145, "REF 123"),
	}}

	rows := New().Extract(page, tableRegion, boundaries)
	require.Len(t, rows, 2)
	assert.Equal(t, RawRow{"05/ENE", "PAGO TARJETA", "1,200.00", "3,000.00"}, rows[0])
	assert.Equal(t, RawRow{"", "REF 123", "", ""}, rows[1])
}

func TestExtract_OutsideRegionIgnored(t *testing.T) {
	page := document.Page{Texts: []document.Text{
		document.Word(20, 50, "ENCABEZADO"),
		document.Word(20, 130, "05/ENE"),
		document.Word(20, 780, "PIE"),
		document.Word(605, 130, "MARGEN"),
	}}

	rows := New().Extract(page, tableRegion, boundaries)
	require.Len(t, rows, 1)
	assert.Equal(t, "05/ENE", rows[0].Cell(0))
	assert.Equal(t, "", rows[0].Cell(3))
}

func TestExtract_EmptyPage(t *testing.T) {
	assert.Nil(t, New().Extract(document.Page{}, tableRegion, boundaries))

	whitespaceOnly := document.Page{Texts: []document.Text{document.Word(20, 130, "   ")}}
	assert.Nil(t, New().Extract(whitespaceOnly, tableRegion, boundaries))
}

func TestExtract_PerCharacterGlyphs(t *testing.T) {
	var texts []document.Text
	x := 70.0
	for _, r := range "OXXO" {
		texts = append(texts, document.Text{X: x, Y: 130, W: 4, FontSize: 8, S: string(r)})
		x += 4
	}
	x += 3 // space-width gap
	for _, r := range "SUR" {
		texts = append(texts, document.Text{X: x, Y: 130, W: 4, FontSize: 8, S: string(r)})
		x += 4
	}

	rows := New().Extract(document.Page{Texts: texts}, tableRegion, boundaries)
	require.Len(t, rows, 1)
	assert.Equal(t, "OXXO SUR", rows[0].Cell(1))
}

// zeroWidthRun emits one glyph per rune, all at x with no width, the way a
// PDF font without a Widths array is reported.
func zeroWidthRun(x, baseline float64, s string) []document.Text {
	texts := make([]document.Text, 0, len(s))
	for _, r := range s {
		texts = append(texts, document.Text{X: x, Y: baseline, FontSize: 8, S: string(r)})
	}
	return texts
}

func TestExtract_ZeroWidthGlyphsSplitOnSpaces(t *testing.T) {
	var texts []document.Text
	texts = append(texts, zeroWidthRun(20, 130, "28 DIC")...)
	texts = append(texts, zeroWidthRun(70, 130, "PAGO DE NOMINA")...)
	texts = append(texts, zeroWidthRun(320, 130, "5,000.00")...)

	rows := New().Extract(document.Page{Texts: texts}, tableRegion, boundaries)
	require.Len(t, rows, 1)
	assert.Equal(t, RawRow{"28 DIC", "PAGO DE NOMINA", "5,000.00", ""}, rows[0])
}

func TestExtractText_ZeroWidthGlyphs(t *testing.T) {
	page := document.Page{Texts: zeroWidthRun(440, 55, "DEL 01 DIC 2023 AL 31 ENE 2024")}
	region := Region{Top: 44.64, Left: 439.2, Bottom: 64.8, Right: 599.76}

	assert.Equal(t, "DEL 01 DIC 2023 AL 31 ENE 2024", New().ExtractText(page, region))
}

func TestExtract_SpaceOnlyLineDropped(t *testing.T) {
	page := document.Page{Texts: []document.Text{
		document.Word(20, 130, "05/ENE"),
		{X: 70, Y: 160, FontSize: 8, S: " "},
	}}
	rows := New().Extract(page, tableRegion, boundaries)
	require.Len(t, rows, 1)
	assert.Equal(t, "05/ENE", rows[0].Cell(0))
}

func TestExtract_UnsortedBoundaries(t *testing.T) {
	page := document.Page{Texts: []document.Text{
		document.Word(20, 130, "A"),
		document.Word(350, 130, "B"),
	}}
	rows := New().Extract(page, tableRegion, []float64{400, 60, 300})
	require.Len(t, rows, 1)
	assert.Equal(t, RawRow{"A", "", "B", ""}, rows[0])
}

func TestExtractText(t *testing.T) {
	page := document.Page{Texts: []document.Text{
		document.Word(440, 55, "DEL"),
		document.Word(460, 55, "15/12/2023"),
		document.Word(440, 63, "AL 14/01/2024"),
		document.Word(20, 55, "FUERA"),
	}}
	region := Region{Top: 44.64, Left: 439.2, Bottom: 64.8, Right: 599.76}

	assert.Equal(t, "DEL 15/12/2023\nAL 14/01/2024", New().ExtractText(page, region))
	assert.Equal(t, "", New().ExtractText(document.Page{}, region))
}

func TestRawRow(t *testing.T) {
	row := RawRow{"a", ""}
	assert.Equal(t, "a", row.Cell(0))
	assert.Equal(t, "", row.Cell(5))
	assert.Equal(t, "", row.Cell(-1))
	assert.False(t, row.Blank())
	assert.True(t, RawRow{"", ""}.Blank())
}
