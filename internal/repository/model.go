package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the persisted form of one transaction.
type TransactionRecord struct {
	ID           uint            `gorm:"primary_key"`
	ImportID     string          `gorm:"size:36;index;not null"`
	UserID       string          `gorm:"size:100;index;not null"`
	SourceFile   string          `gorm:"size:255"`
	Position     int             `gorm:"not null"`
	Date         time.Time       `gorm:"not null"`
	Description  string          `gorm:"type:text"`
	Debit        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Credit       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CategoryType string          `gorm:"size:20;not null"`
	Category     string          `gorm:"size:100;not null"`
	CreatedAt    time.Time
}

// TableName pins the table name the external schema expects.
func (TransactionRecord) TableName() string {
	return "transactions"
}
