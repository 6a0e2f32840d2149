package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewTransaction(t *testing.T) {
	date := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		debit        string
		credit       string
		expectAmount string
		expectType   string
	}{
		{"Expense", "150.50", "0", "-150.5", CategoryTypeExpenses},
		{"Income", "0", "2000", "2000", CategoryTypeIncome},
		{"BothColumns", "100", "40", "-60", CategoryTypeExpenses},
		{"ZeroIsExpense", "0", "0", "0", CategoryTypeExpenses},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tx := NewTransaction(date, "PAGO", decimal.RequireFromString(tc.debit), decimal.RequireFromString(tc.credit))
			assert.True(t, decimal.RequireFromString(tc.expectAmount).Equal(tx.Amount), "got %s", tx.Amount)
			assert.Equal(t, tc.expectType, tx.CategoryType)
			assert.Equal(t, tx.Amount.IsPositive(), tx.IsIncome())
			assert.Empty(t, tx.Category)
		})
	}
}

func TestDiagnosticsAdd(t *testing.T) {
	var total Diagnostics
	total.Add(Diagnostics{PagesScanned: 1, EmptyPages: 1})
	total.Add(Diagnostics{PagesScanned: 1, RowsDropped: 2, MarkerRowsRemoved: 2, ContinuationsMerged: 3})

	assert.Equal(t, Diagnostics{
		PagesScanned:        2,
		EmptyPages:          1,
		RowsDropped:         2,
		MarkerRowsRemoved:   2,
		ContinuationsMerged: 3,
	}, total)
}
