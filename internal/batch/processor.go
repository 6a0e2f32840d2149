// Package batch processes every statement in a directory and reports the outcome per file.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/profile"
)

// DateRange is the span of transaction dates in a document.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when unset.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}

// Merge combines two ranges into the overall range.
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// DateRangeOf calculates the date range covered by transactions.
func DateRangeOf(transactions []models.Transaction) DateRange {
	if len(transactions) == 0 {
		return DateRange{}
	}
	start := transactions[0].Date
	end := transactions[0].Date
	for _, tx := range transactions {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return DateRange{Start: start, End: end}
}

// DocumentProcessor turns one statement into transactions.
type DocumentProcessor interface {
	Process(ctx context.Context, path string, prof profile.Profile) (pipeline.Result, error)
}

// Sink receives the result of a successfully processed document and returns
// where it was delivered (an output path, an import id).
type Sink func(ctx context.Context, path string, result pipeline.Result) (string, error)

// FileStatus is the outcome for one document.
type FileStatus struct {
	Path         string
	Destination  string
	Transactions int
	Diagnostics  models.Diagnostics
	DateRange    DateRange
	Duplicates   int
	ErrorKind    string
	Err          error
}

// Failed reports whether the document produced no output.
func (s FileStatus) Failed() bool {
	return s.Err != nil
}

// Report collects the per-file outcomes of one run, in file name order.
type Report struct {
	Files []FileStatus
}

// Succeeded returns the number of documents that were delivered.
func (r Report) Succeeded() int {
	n := 0
	for _, f := range r.Files {
		if !f.Failed() {
			n++
		}
	}
	return n
}

// Failures returns the failed documents.
func (r Report) Failures() []FileStatus {
	var failed []FileStatus
	for _, f := range r.Files {
		if f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}

// TotalTransactions sums the transactions of every delivered document.
func (r Report) TotalTransactions() int {
	total := 0
	for _, f := range r.Files {
		total += f.Transactions
	}
	return total
}

// Processor runs a DocumentProcessor over a directory of statements.
type Processor struct {
	documents DocumentProcessor
	logger    logging.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(documents DocumentProcessor, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Processor{documents: documents, logger: logger}
}

// FindStatements lists the *.pdf files directly inside dir, sorted by name.
func FindStatements(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &parsererror.ValidationError{FilePath: dir, Reason: fmt.Sprintf("cannot read input directory: %v", err)}
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps an input statement to "<outputDir>/<name>.csv".
func OutputPath(inputFile, outputDir string) string {
	base := filepath.Base(inputFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, name+".csv")
}

// Run processes every statement in inputDir with prof and hands each result to sink.
// A failing document is recorded and the run continues with the next one. Only a
// cancelled context or an unreadable directory aborts the run.
func (p *Processor) Run(ctx context.Context, inputDir string, prof profile.Profile, sink Sink) (Report, error) {
	files, err := FindStatements(inputDir)
	if err != nil {
		return Report{}, err
	}
	if len(files) == 0 {
		p.logger.Warn("No statements found in input directory", logging.F(logging.FieldInputFile, inputDir))
		return Report{}, nil
	}

	p.logger.Info("Found statements for processing",
		logging.F(logging.FieldCount, len(files)),
		logging.F(logging.FieldBank, prof.Kind))

	report := Report{Files: make([]FileStatus, 0, len(files))}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Files = append(report.Files, p.processFile(ctx, file, prof, sink))
	}

	p.logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, report.Succeeded()),
		logging.F("failed", len(report.Failures())),
		logging.F("transactions", report.TotalTransactions()))
	return report, nil
}

func (p *Processor) processFile(ctx context.Context, file string, prof profile.Profile, sink Sink) FileStatus {
	status := FileStatus{Path: file}
	logger := p.logger.WithField(logging.FieldFile, filepath.Base(file))

	result, err := p.documents.Process(ctx, file, prof)
	if err == nil {
		status.Destination, err = sink(ctx, file, result)
	}
	if err != nil {
		status.Err = err
		status.ErrorKind = parsererror.KindOf(err)
		logger.WithError(err).Error("Statement failed")
		return status
	}

	status.Transactions = len(result.Transactions)
	status.Diagnostics = result.Diagnostics
	status.DateRange = DateRangeOf(result.Transactions)
	status.Duplicates = p.detectAndLogDuplicates(result.Transactions, file)

	logger.Info("Statement converted",
		logging.F(logging.FieldCount, status.Transactions),
		logging.F(logging.FieldOutputFile, status.Destination))
	return status
}

// detectAndLogDuplicates counts transactions sharing date, amount and description
// with an earlier one. Duplicates are kept; two identical purchases on one day are legitimate.
func (p *Processor) detectAndLogDuplicates(transactions []models.Transaction, file string) int {
	duplicateCount := 0
	for i := 1; i < len(transactions); i++ {
		for j := 0; j < i; j++ {
			if arePotentialDuplicates(transactions[i], transactions[j]) {
				duplicateCount++
				p.logger.Debug("Potential duplicate transaction",
					logging.F(logging.FieldFile, filepath.Base(file)),
					logging.F("date", transactions[i].Date.Format("2006-01-02")),
					logging.F("amount", transactions[i].Amount.String()),
					logging.F(logging.FieldDescription, transactions[i].Description))
				break
			}
		}
	}
	if duplicateCount > 0 {
		p.logger.Warn("Found potential duplicate transactions",
			logging.F(logging.FieldCount, duplicateCount),
			logging.F(logging.FieldFile, filepath.Base(file)))
	}
	return duplicateCount
}

func arePotentialDuplicates(tx1, tx2 models.Transaction) bool {
	if !tx1.Date.Equal(tx2.Date) || !tx1.Amount.Equal(tx2.Amount) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(tx1.Description), strings.TrimSpace(tx2.Description))
}
