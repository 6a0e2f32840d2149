// Package common provides shared output functionality for the statement commands.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"edocta/edocta-csv/internal/currencyutils"
	"edocta/edocta-csv/internal/dateutils"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// TransactionRow is the on-disk shape of one transaction. Column order follows field order.
type TransactionRow struct {
	Date         string `csv:"Date"`
	Description  string `csv:"Description"`
	Debit        string `csv:"Debit"`
	Credit       string `csv:"Credit"`
	Amount       string `csv:"Amount"`
	CategoryType string `csv:"Category Type"`
	Category     string `csv:"Category"`
}

// CSVOptions controls the output format.
type CSVOptions struct {
	Delimiter      rune
	DateFormat     string
	IncludeHeaders bool
}

// DefaultCSVOptions returns comma separated output with ISO dates and a header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:      ',',
		DateFormat:     dateutils.DateLayoutISO,
		IncludeHeaders: true,
	}
}

// CSVWriter writes transactions as delimited text.
type CSVWriter struct {
	opts   CSVOptions
	logger logging.Logger
}

// NewCSVWriter creates a writer. Zero-valued options fall back to the defaults.
func NewCSVWriter(opts CSVOptions, logger logging.Logger) *CSVWriter {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.DateFormat == "" {
		opts.DateFormat = dateutils.DateLayoutISO
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &CSVWriter{opts: opts, logger: logger}
}

// Options returns the effective options.
func (w *CSVWriter) Options() CSVOptions {
	return w.opts
}

// ToRows converts transactions to their textual form, preserving order.
func ToRows(transactions []models.Transaction, dateFormat string) []TransactionRow {
	rows := make([]TransactionRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, TransactionRow{
			Date:         dateutils.FormatDate(tx.Date, dateFormat),
			Description:  tx.Description,
			Debit:        currencyutils.FormatAmount(tx.Debit),
			Credit:       currencyutils.FormatAmount(tx.Credit),
			Amount:       currencyutils.FormatAmount(tx.Amount),
			CategoryType: tx.CategoryType,
			Category:     tx.Category,
		})
	}
	return rows
}

// Write marshals transactions to out. An empty slice still produces the header row.
func (w *CSVWriter) Write(out io.Writer, transactions []models.Transaction) error {
	rows := ToRows(transactions, w.opts.DateFormat)

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.opts.Delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if w.opts.IncludeHeaders {
		err = gocsv.MarshalCSV(rows, safe)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, safe)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes transactions to csvFile, creating its directory when needed.
func (w *CSVWriter) WriteFile(csvFile string, transactions []models.Transaction) error {
	w.logger.Info("Writing transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)),
		logging.F(logging.FieldDelimiter, string(w.opts.Delimiter)))

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		w.logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- output path is chosen by the operator
	if err != nil {
		w.logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}

	if err := w.Write(file, transactions); err != nil {
		_ = file.Close()
		w.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}

	w.logger.Debug("Successfully wrote transactions to CSV file",
		logging.F(logging.FieldFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))
	return nil
}
