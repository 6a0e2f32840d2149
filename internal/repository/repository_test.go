package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(DriverSQLite, ":memory:", logging.NewDiscardLogger())
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func statementTransactions() []models.Transaction {
	rent := models.NewTransaction(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), "RENTA MARZO",
		decimal.RequireFromString("8500"), decimal.Zero)
	rent.Category = "Housing"
	salary := models.NewTransaction(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), "NOMINA EMPRESA",
		decimal.Zero, decimal.RequireFromString("21000.5"))
	salary.Category = "Salary"
	oxxo := models.NewTransaction(time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC), "OXXO CENTRO",
		decimal.RequireFromString("89.9"), decimal.Zero)
	oxxo.Category = "Convenience Stores"
	return []models.Transaction{rent, salary, oxxo}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn", nil)
	require.Error(t, err)
	assert.Equal(t, parsererror.KindValidation, parsererror.KindOf(err))

	_, err = Open(DriverPostgres, "", nil)
	assert.Error(t, err)
}

func TestInsertBatch_StoresEveryRow(t *testing.T) {
	repo := newTestRepository(t)
	fixed := uuid.MustParse("7f1d2c4e-0000-4000-8000-000000000001")
	repo.newID = func() uuid.UUID { return fixed }

	result, err := repo.InsertBatch(context.Background(), "/statements/marzo.pdf", "user-42", statementTransactions())
	require.NoError(t, err)
	assert.Equal(t, fixed.String(), result.ImportID)
	assert.Equal(t, 3, result.Rows)

	records, err := repo.FindByImport(result.ImportID)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "RENTA MARZO", records[0].Description)
	assert.Equal(t, "NOMINA EMPRESA", records[1].Description)
	assert.Equal(t, "OXXO CENTRO", records[2].Description)
	assert.Equal(t, "marzo.pdf", records[0].SourceFile)
	assert.Equal(t, "user-42", records[0].UserID)
	assert.Equal(t, models.CategoryTypeExpenses, records[0].CategoryType)
	assert.Equal(t, models.CategoryTypeIncome, records[1].CategoryType)
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("21000.5")), records[1].Amount.String())
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("-8500")), records[0].Amount.String())
	assert.True(t, records[2].Date.Equal(time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC)))

	count, err := repo.CountByUser("user-42")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestInsertBatch_RollsBackOnFailure(t *testing.T) {
	repo := newTestRepository(t)

	repo.DB().Callback().Create().Before("gorm:create").Register("test:fail_third_row", func(scope *gorm.Scope) {
		if record, ok := scope.Value.(*TransactionRecord); ok && record.Position == 2 {
			scope.Err(errors.New("disk full"))
		}
	})

	_, err := repo.InsertBatch(context.Background(), "abril.pdf", "user-42", statementTransactions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrPersistence))
	assert.Contains(t, err.Error(), "abril.pdf")
	assert.Contains(t, err.Error(), "disk full")

	var persistErr *parsererror.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, 3, persistErr.Rows)

	count, err := repo.CountByUser("user-42")
	require.NoError(t, err)
	assert.Zero(t, count, "a failed batch must not leave rows behind")
}

func TestInsertBatch_CancelledContext(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.InsertBatch(ctx, "mayo.pdf", "user-7", statementTransactions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, parsererror.ErrPersistence))

	count, err := repo.CountByUser("user-7")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertBatch_RequiresUser(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.InsertBatch(context.Background(), "junio.pdf", "", statementTransactions())
	require.Error(t, err)
	assert.Equal(t, parsererror.KindValidation, parsererror.KindOf(err))
}

func TestInsertBatch_EmptyBatch(t *testing.T) {
	repo := newTestRepository(t)
	result, err := repo.InsertBatch(context.Background(), "julio.pdf", "user-1", nil)
	require.NoError(t, err)
	assert.Zero(t, result.Rows)
	assert.NotEmpty(t, result.ImportID)
}

func TestInsertBatch_SeparateImportsAreDistinct(t *testing.T) {
	repo := newTestRepository(t)
	first, err := repo.InsertBatch(context.Background(), "a.pdf", "user-1", statementTransactions())
	require.NoError(t, err)
	second, err := repo.InsertBatch(context.Background(), "b.pdf", "user-1", statementTransactions()[:1])
	require.NoError(t, err)

	assert.NotEqual(t, first.ImportID, second.ImportID)
	records, err := repo.FindByImport(second.ImportID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	count, err := repo.CountByUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
