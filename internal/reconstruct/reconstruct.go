// Package reconstruct turns normalized physical lines into logical transactions.
package reconstruct

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentMarker is the description BBVA prints under a purchase moved to
// interest-free installments. The line above it repeats the amount.
const InstallmentMarker = "TRASPASO A MESES SIN INTERES"

// Record is one normalized line. HasDate is false for continuation lines and for
// lines whose date could not be resolved.
type Record struct {
	Date        time.Time
	HasDate     bool
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// MergeContinuations folds undated lines into the dated line above them.
// Descriptions are joined with a space and amounts are summed. Undated lines seen
// before the first dated one have nothing to attach to and are discarded.
func MergeContinuations(records []Record) (merged []Record, continuations, orphans int) {
	var pending *Record
	for _, r := range records {
		if r.HasDate {
			if pending != nil {
				merged = append(merged, *pending)
			}
			next := r
			pending = &next
			continue
		}
		if pending == nil {
			orphans++
			continue
		}
		continuations++
		if d := strings.TrimSpace(r.Description); d != "" {
			pending.Description = strings.TrimSpace(pending.Description + " " + d)
		}
		pending.Debit = pending.Debit.Add(r.Debit)
		pending.Credit = pending.Credit.Add(r.Credit)
	}
	if pending != nil {
		merged = append(merged, *pending)
	}
	return merged, continuations, orphans
}

// RemoveInstallmentDuplicates drops every marker line together with the line
// directly above it. A marker in first position has no predecessor and is kept.
func RemoveInstallmentDuplicates(records []Record) ([]Record, int) {
	drop := make(map[int]bool)
	for i := 1; i < len(records); i++ {
		if records[i].Description == InstallmentMarker {
			drop[i-1] = true
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return records, 0
	}
	kept := make([]Record, 0, len(records)-len(drop))
	for i, r := range records {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	return kept, len(drop)
}

// DropUndated removes lines without a resolved date and reports how many went.
func DropUndated(records []Record) ([]Record, int) {
	kept := records[:0:0]
	for _, r := range records {
		if r.HasDate {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// DropBlankDescriptions removes lines with no description text.
func DropBlankDescriptions(records []Record) ([]Record, int) {
	kept := records[:0:0]
	for _, r := range records {
		if strings.TrimSpace(r.Description) != "" {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// SwapPolarity exchanges debit and credit for banks that print them inverted.
func SwapPolarity(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Debit, r.Credit = r.Credit, r.Debit
		out[i] = r
	}
	return out
}
