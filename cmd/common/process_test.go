package common

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edocta/edocta-csv/internal/batch"
	"edocta/edocta-csv/internal/categorizer"
	internalcommon "edocta/edocta-csv/internal/common"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/models"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/pipeline"
	"edocta/edocta-csv/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "out.csv", DefaultOutput("in.pdf", "out.csv"))
	assert.Equal(t, filepath.Join("dir", "estado.csv"), DefaultOutput(filepath.Join("dir", "estado.pdf"), ""))
}

func TestRequireInput(t *testing.T) {
	assert.NoError(t, RequireInput("a.pdf", "file"))
	err := RequireInput("", "statement file")
	require.Error(t, err)
	assert.Equal(t, parsererror.KindValidation, parsererror.KindOf(err))
}

func TestConvertFile(t *testing.T) {
	doc := document.NewMemory(
		document.Page{Texts: []document.Text{
			document.Word(30, 130, "03-JUN-2023"), document.Word(85, 130, "001"),
			document.Word(120, 130, "NETFLIX"), document.Word(440, 130, "219.00"),
		}},
		document.Page{},
	)
	p := pipeline.New(
		categorizer.NewFromConfigs([]models.CategoryConfig{{Name: "Subscriptions", Keywords: []string{"NETFLIX"}}}, nil),
		nil,
		pipeline.WithOpener(func(string) (document.Document, error) { return doc, nil }),
	)
	prof, err := profile.Lookup(string(profile.SantanderDebito))
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "junio.csv")
	w := internalcommon.NewCSVWriter(internalcommon.DefaultCSVOptions(), nil)
	result, err := ConvertFile(context.Background(), p, w, "junio.pdf", output, prof)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "2023-06-03,NETFLIX,219.00,0.00,-219.00,expenses,Subscriptions")
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	PrintSummary(&out, "/tmp/marzo.pdf", "marzo.csv", pipeline.Result{
		Transactions: make([]models.Transaction, 4),
		Diagnostics:  models.Diagnostics{PagesScanned: 3, EmptyPages: 1, RowsDropped: 2, MarkerRowsRemoved: 2, ContinuationsMerged: 5},
	})
	assert.Equal(t, "marzo.pdf: 4 transactions -> marzo.csv\n"+
		"  pages scanned 3, empty 1, rows dropped 2, installment rows removed 2, continuations merged 5\n", out.String())
}

func TestPrintBatchReportAndError(t *testing.T) {
	report := batch.Report{Files: []batch.FileStatus{
		{Path: "/in/enero.pdf", Destination: "/out/enero.csv", Transactions: 12, Diagnostics: models.Diagnostics{RowsDropped: 1}},
		{Path: "/in/roto.pdf", ErrorKind: parsererror.KindDocumentUnreadable, Err: errors.New("zero pages")},
	}}

	var out bytes.Buffer
	PrintBatchReport(&out, report)
	assert.Equal(t, "OK     enero.pdf: 12 transactions -> /out/enero.csv (1 rows dropped)\n"+
		"FAILED roto.pdf [DocumentUnreadable]: zero pages\n"+
		"1 of 2 statements processed, 12 transactions\n", out.String())

	err := BatchError(report)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 statements failed", err.Error())
	assert.NoError(t, BatchError(batch.Report{Files: report.Files[:1]}))
}
