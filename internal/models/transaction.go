// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record emitted for every statement line.
type Transaction struct {
	Date         time.Time
	Description  string
	Debit        decimal.Decimal // money moved out, non-negative
	Credit       decimal.Decimal // money moved in, non-negative
	Amount       decimal.Decimal // Credit - Debit
	Category     string
	CategoryType string
}

// NewTransaction builds a transaction with its net amount and category type derived
// from debit and credit. Category is left empty for the classifier.
func NewTransaction(date time.Time, description string, debit, credit decimal.Decimal) Transaction {
	amount := credit.Sub(debit)
	return Transaction{
		Date:         date,
		Description:  description,
		Debit:        debit,
		Credit:       credit,
		Amount:       amount,
		CategoryType: CategoryTypeFor(amount),
	}
}

// CategoryTypeFor returns "income" for a strictly positive amount and "expenses" otherwise.
func CategoryTypeFor(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return CategoryTypeIncome
	}
	return CategoryTypeExpenses
}

// IsIncome reports whether money moved in.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// Diagnostics summarises what happened while processing one document.
// Dropped rows are never errors, they are counted here instead.
type Diagnostics struct {
	PagesScanned        int
	EmptyPages          int
	RowsDropped         int
	MarkerRowsRemoved   int
	ContinuationsMerged int
}

// Add accumulates another page's counters.
func (d *Diagnostics) Add(other Diagnostics) {
	d.PagesScanned += other.PagesScanned
	d.EmptyPages += other.EmptyPages
	d.RowsDropped += other.RowsDropped
	d.MarkerRowsRemoved += other.MarkerRowsRemoved
	d.ContinuationsMerged += other.ContinuationsMerged
}
