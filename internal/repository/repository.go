// Package repository persists transaction batches. Each document is inserted as one
// database transaction: either every row lands or none does.
package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"    // mysql
	_ "github.com/jinzhu/gorm/dialects/postgres" // postgres
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // sqlite3
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// TransactionStore is what the import command needs from a store.
type TransactionStore interface {
	InsertBatch(ctx context.Context, sourceFile, userID string, transactions []models.Transaction) (ImportResult, error)
	Close() error
}

// ImportResult identifies a stored batch.
type ImportResult struct {
	ImportID string
	Rows     int
}

// Repository stores transactions through gorm.
type Repository struct {
	db     *gorm.DB
	logger logging.Logger
	newID  func() uuid.UUID
}

// Open connects to the database behind driver and dsn.
func Open(driver, dsn string, logger logging.Logger) (*Repository, error) {
	switch driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return nil, &parsererror.ValidationError{Reason: fmt.Sprintf("unsupported store driver %q", driver)}
	}
	if dsn == "" {
		return nil, &parsererror.ValidationError{Reason: "store dsn is empty"}
	}

	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// every sqlite connection is a separate in-memory database
		db.DB().SetMaxOpenConns(1)
	}
	return New(db, logger), nil
}

// New wraps an existing connection.
func New(db *gorm.DB, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Repository{db: db, logger: logger, newID: uuid.New}
}

// Migrate creates or updates the transactions table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&TransactionRecord{}).Error; err != nil {
		return fmt.Errorf("failed to migrate transactions table: %w", err)
	}
	return nil
}

// DB exposes the underlying connection.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// InsertBatch stores all transactions of one document under a fresh import id.
// On any failure nothing is stored and a PersistenceError naming the document is returned.
func (r *Repository) InsertBatch(ctx context.Context, sourceFile, userID string, transactions []models.Transaction) (ImportResult, error) {
	if userID == "" {
		return ImportResult{}, &parsererror.ValidationError{FilePath: sourceFile, Reason: "user id is required"}
	}
	importID := r.newID().String()
	result := ImportResult{ImportID: importID}
	if len(transactions) == 0 {
		return result, nil
	}

	logger := r.logger.WithFields(
		logging.F(logging.FieldFile, sourceFile),
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldImportID, importID))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, t := range transactions {
			if err := ctx.Err(); err != nil {
				return err
			}
			record := toRecord(t, importID, userID, sourceFile, i)
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("Batch insert rolled back")
		return ImportResult{}, &parsererror.PersistenceError{FilePath: sourceFile, Rows: len(transactions), Err: err}
	}

	result.Rows = len(transactions)
	logger.Info("Transactions stored", logging.F(logging.FieldCount, result.Rows))
	return result, nil
}

// FindByImport returns the rows of one import in emission order.
func (r *Repository) FindByImport(importID string) ([]TransactionRecord, error) {
	var records []TransactionRecord
	if err := r.db.Where("import_id = ?", importID).Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load import %s: %w", importID, err)
	}
	return records, nil
}

// CountByUser returns how many rows a user owns.
func (r *Repository) CountByUser(userID string) (int, error) {
	var count int
	if err := r.db.Model(&TransactionRecord{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func toRecord(t models.Transaction, importID, userID, sourceFile string, position int) TransactionRecord {
	return TransactionRecord{
		ImportID:     importID,
		UserID:       userID,
		SourceFile:   filepath.Base(sourceFile),
		Position:     position,
		Date:         t.Date,
		Description:  t.Description,
		Debit:        t.Debit,
		Credit:       t.Credit,
		Amount:       t.Amount,
		CategoryType: t.CategoryType,
		Category:     t.Category,
	}
}

var _ TransactionStore = (*Repository)(nil)
