// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"edocta/edocta-csv/internal/batch"
	"edocta/edocta-csv/internal/common"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/profile"
)

// DefaultOutput derives "<input without extension>.csv" when no output was given.
func DefaultOutput(inputFile, outputFile string) string {
	if outputFile != "" {
		return outputFile
	}
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".csv"
}

// RequireInput fails with a validation error when a required path flag is empty.
func RequireInput(path, what string) error {
	if path == "" {
		return &parsererror.ValidationError{Reason: fmt.Sprintf("--input %s is required", what)}
	}
	return nil
}

// ConvertFile runs one statement through the pipeline and writes it as CSV.
// Nothing is written when processing fails.
func ConvertFile(ctx context.Context, p *pipeline.Pipeline, w *common.CSVWriter, inputFile, outputFile string, prof profile.Profile) (pipeline.Result, error) {
	result, err := p.Process(ctx, inputFile, prof)
	if err != nil {
		return pipeline.Result{}, err
	}
	if err := w.WriteFile(outputFile, result.Transactions); err != nil {
		return pipeline.Result{}, err
	}
	return result, nil
}

// PrintSummary writes the per-document outcome and its diagnostics.
func PrintSummary(out io.Writer, inputFile, destination string, result pipeline.Result) {
	d := result.Diagnostics
	_, _ = fmt.Fprintf(out, "%s: %d transactions -> %s\n", filepath.Base(inputFile), len(result.Transactions), destination)
	_, _ = fmt.Fprintf(out, "  pages scanned %d, empty %d, rows dropped %d, installment rows removed %d, continuations merged %d\n",
		d.PagesScanned, d.EmptyPages, d.RowsDropped, d.MarkerRowsRemoved, d.ContinuationsMerged)
}

// PrintBatchReport writes one line per document followed by a total.
func PrintBatchReport(out io.Writer, report batch.Report) {
	for _, f := range report.Files {
		name := filepath.Base(f.Path)
		if f.Failed() {
			_, _ = fmt.Fprintf(out, "FAILED %s [%s]: %v\n", name, f.ErrorKind, f.Err)
			continue
		}
		line := fmt.Sprintf("OK     %s: %d transactions -> %s", name, f.Transactions, f.Destination)
		if f.Diagnostics.RowsDropped > 0 {
			line += fmt.Sprintf(" (%d rows dropped)", f.Diagnostics.RowsDropped)
		}
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = fmt.Fprintf(out, "%d of %d statements processed, %d transactions\n",
		report.Succeeded(), len(report.Files), report.TotalTransactions())
}

// BatchError summarises failed documents as a single error, or nil.
func BatchError(report batch.Report) error {
	failed := report.Failures()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d statements failed", len(failed), len(report.Files))
}
