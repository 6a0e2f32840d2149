// Package profile holds the fixed page geometry and cleanup rules of every
// supported statement type. Profiles are plain values selected by an explicit
// bank identifier; nothing is detected from document content.
package profile

import (
	"fmt"
	"sort"

	"edocta/edocta-csv/internal/dateutils"
	"edocta/edocta-csv/internal/extractor"
	"edocta/edocta-csv/internal/parsererror"
)

// Kind tags a bank and product combination.
type Kind string

// Supported statement types.
const (
	BBVADebito             Kind = "bbva-debito"
	BBVACredito            Kind = "bbva-credito"
	SantanderDebito        Kind = "santander-debito"
	CitibanamexEmpresarial Kind = "citibanamex-empresarial"
)

// Field names a raw column.
type Field string

// Raw columns that can appear in a statement table. Only Date, Description,
// Debit and Credit reach the canonical record; the rest are pruned.
const (
	FieldDate        Field = "Date"
	FieldPostDate    Field = "PostDate"
	FieldDescription Field = "Description"
	FieldReference   Field = "Reference"
	FieldRFC         Field = "RFC"
	FieldFolio       Field = "Folio"
	FieldDebit       Field = "Debit"
	FieldCredit      Field = "Credit"
	FieldRemainder   Field = "Remainder"
)

// PageWindow selects the pages holding transactions. First counts from 1;
// TrailingSkip pages at the end (summaries, legal text) are never read.
type PageWindow struct {
	First        int
	TrailingSkip int
}

// Range returns the inclusive page span for a document of n pages. ok is false
// when the window is empty.
func (w PageWindow) Range(n int) (first, last int, ok bool) {
	first = w.First
	if first < 1 {
		first = 1
	}
	last = n - w.TrailingSkip
	return first, last, last >= first
}

// String renders the window relative to the page count N, e.g. "2..N-3".
func (w PageWindow) String() string {
	first := w.First
	if first < 1 {
		first = 1
	}
	if w.TrailingSkip == 0 {
		return fmt.Sprintf("%d..N", first)
	}
	return fmt.Sprintf("%d..N-%d", first, w.TrailingSkip)
}

// Rules are the cleanup steps applied after normalization.
type Rules struct {
	// SwapPolarity exchanges the debit and credit columns.
	SwapPolarity bool
	// DropInstallmentDuplicates removes installment marker lines and the line above them.
	DropInstallmentDuplicates bool
	// MergeContinuations folds undated lines into the transaction above.
	MergeContinuations bool
	// RequireDescription drops lines with an empty description before anything else.
	RequireDescription bool
}

// Profile is the complete extraction recipe for one statement type.
type Profile struct {
	Kind       Kind
	Name       string
	Pages      PageWindow
	Region     extractor.Region
	Boundaries []float64
	Fields     []Field
	DateMode   dateutils.DateMode

	// YearRegion is read on page 1 when DateMode needs the year inferred.
	YearRegion *extractor.Region
	// RequiredDates must all resolve for a line to count as dated.
	RequiredDates []Field
	Rules         Rules
}

// Index returns the column position of f, or -1.
func (p Profile) Index(f Field) int {
	for i, field := range p.Fields {
		if field == f {
			return i
		}
	}
	return -1
}

// NeedsYearRange reports whether dates carry no year of their own.
func (p Profile) NeedsYearRange() bool {
	return p.DateMode == dateutils.DayMonthInferred
}

// Validate checks the internal consistency of a profile.
func (p Profile) Validate() error {
	switch {
	case p.Kind == "":
		return fmt.Errorf("profile has no kind")
	case len(p.Fields) == 0:
		return fmt.Errorf("profile %s has no fields", p.Kind)
	case len(p.Fields) > len(p.Boundaries)+1:
		return fmt.Errorf("profile %s names %d fields for %d columns", p.Kind, len(p.Fields), len(p.Boundaries)+1)
	case p.Index(FieldDescription) < 0 || p.Index(FieldDebit) < 0 || p.Index(FieldCredit) < 0:
		return fmt.Errorf("profile %s lacks a description, debit or credit column", p.Kind)
	case len(p.RequiredDates) == 0:
		return fmt.Errorf("profile %s has no date column", p.Kind)
	case p.NeedsYearRange() && p.YearRegion == nil:
		return fmt.Errorf("profile %s infers years but has no year region", p.Kind)
	}
	for _, f := range p.RequiredDates {
		if p.Index(f) < 0 {
			return fmt.Errorf("profile %s requires missing date column %s", p.Kind, f)
		}
	}
	return nil
}

var builtin = map[Kind]Profile{
	BBVADebito: {
		Kind:       BBVADebito,
		Name:       "BBVA cuenta de débito",
		Pages:      PageWindow{First: 1, TrailingSkip: 3},
		Region:     extractor.Region{Top: 100, Left: 12.24, Bottom: 753.84, Right: 598.56},
		Boundaries: []float64{54.72, 100.8, 298.08, 378, 418, 462.24},
		Fields: []Field{
			FieldDate, FieldPostDate, FieldDescription, FieldReference,
			FieldDebit, FieldCredit, FieldRemainder,
		},
		DateMode:      dateutils.DayMonthInferred,
		YearRegion:    &extractor.Region{Top: 44.64, Left: 439.2, Bottom: 64.8, Right: 599.76},
		RequiredDates: []Field{FieldDate, FieldPostDate},
		Rules:         Rules{DropInstallmentDuplicates: true},
	},
	BBVACredito: {
		Kind:       BBVACredito,
		Name:       "BBVA tarjeta de crédito",
		Pages:      PageWindow{First: 2, TrailingSkip: 3},
		Region:     extractor.Region{Top: 100, Left: 25.2, Bottom: 753.84, Right: 598.56},
		Boundaries: []float64{89.28, 151.2, 331.2, 417.6, 477.36, 534.96, 602.64},
		Fields: []Field{
			FieldPostDate, FieldDate, FieldDescription, FieldRFC,
			FieldReference, FieldDebit, FieldCredit,
		},
		DateMode:      dateutils.NumericShortYear,
		RequiredDates: []Field{FieldDate, FieldPostDate},
		Rules:         Rules{DropInstallmentDuplicates: true},
	},
	SantanderDebito: {
		Kind:       SantanderDebito,
		Name:       "Santander cuenta de débito",
		Pages:      PageWindow{First: 1, TrailingSkip: 1},
		Region:     extractor.Region{Top: 100, Left: 25.2, Bottom: 753.84, Right: 598.56},
		Boundaries: []float64{79.2, 112.32, 361.44, 429.84, 497.52},
		Fields: []Field{
			FieldDate, FieldFolio, FieldDescription, FieldDebit, FieldCredit, FieldRemainder,
		},
		DateMode:      dateutils.DayMonthYear,
		RequiredDates: []Field{FieldDate},
		Rules:         Rules{SwapPolarity: true},
	},
	CitibanamexEmpresarial: {
		Kind:       CitibanamexEmpresarial,
		Name:       "Citibanamex cuenta empresarial",
		Pages:      PageWindow{First: 1, TrailingSkip: 3},
		Region:     extractor.Region{Top: 100, Left: 12.24, Bottom: 753.84, Right: 598.56},
		Boundaries: []float64{52.56, 244.8, 323.28, 401.76, 480.24},
		Fields: []Field{
			FieldDate, FieldDescription, FieldDebit, FieldCredit, FieldRemainder,
		},
		DateMode:      dateutils.DayMonthInferred,
		YearRegion:    &extractor.Region{Top: 396, Left: 115.2, Bottom: 410.4, Right: 276.48},
		RequiredDates: []Field{FieldDate},
		Rules: Rules{
			RequireDescription:        true,
			DropInstallmentDuplicates: true,
			MergeContinuations:        true,
		},
	},
}

// Lookup returns the profile for id.
func Lookup(id string) (Profile, error) {
	p, ok := builtin[Kind(id)]
	if !ok {
		return Profile{}, &parsererror.UnknownProfileError{ID: id, Known: IDs()}
	}
	return clone(p), nil
}

// All returns every profile ordered by identifier.
func All() []Profile {
	out := make([]Profile, 0, len(builtin))
	for _, id := range IDs() {
		out = append(out, clone(builtin[Kind(id)]))
	}
	return out
}

// IDs lists the supported identifiers in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(builtin))
	for k := range builtin {
		ids = append(ids, string(k))
	}
	sort.Strings(ids)
	return ids
}

// clone copies the slices and pointers so callers cannot modify the built-in table.
func clone(p Profile) Profile {
	p.Boundaries = append([]float64(nil), p.Boundaries...)
	p.Fields = append([]Field(nil), p.Fields...)
	p.RequiredDates = append([]Field(nil), p.RequiredDates...)
	if p.YearRegion != nil {
		r := *p.YearRegion
		p.YearRegion = &r
	}
	return p
}
