package convert_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edocta/edocta-csv/cmd/convert"
	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/container"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Cmd.AddCommand(convert.Cmd)
	os.Exit(m.Run())
}

// santanderStatement has two movements on page 1; page 2 is the trailing summary page.
func santanderStatement() *document.Memory {
	return document.NewMemory(
		document.Page{Texts: []document.Text{
			document.Word(30, 130, "07-AGO-2023"), document.Word(85, 130, "001"),
			document.Word(120, 130, "DEPOSITO NOMINA"), document.Word(370, 130, "2,500.00"),
			document.Word(30, 145, "08-AGO-2023"), document.Word(85, 145, "002"),
			document.Word(120, 145, "OXXO CENTRO"), document.Word(440, 145, "100.00"),
		}},
		document.Page{},
	)
}

func memoryOpener(doc document.Document) document.Opener {
	return func(string) (document.Document, error) { return doc, nil }
}

func run(t *testing.T, opener document.Opener, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root.Reset()
	t.Cleanup(root.Reset)
	root.SetContainerOptions(
		container.WithLogger(logging.NewDiscardLogger()),
		container.WithDocumentOpener(opener),
	)

	var out, errOut bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&errOut)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

func TestConvertCommand_Metadata(t *testing.T) {
	assert.Equal(t, "convert", convert.Cmd.Use)
	assert.Contains(t, convert.Cmd.Short, "Convert a statement PDF")
	assert.Contains(t, convert.Cmd.Long, "Example")
	assert.NotNil(t, convert.Cmd.RunE)
}

func TestConvertCommand_WritesCSV(t *testing.T) {
	output := filepath.Join(t.TempDir(), "agosto.csv")

	stdout, err := run(t, memoryOpener(santanderStatement()),
		"convert", "--bank", "santander-debito", "-i", "agosto.pdf", "-o", output)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	expected := "Date,Description,Debit,Credit,Amount,Category Type,Category\n" +
		"2023-08-07,DEPOSITO NOMINA,0.00,2500.00,2500.00,income,Deposits\n" +
		"2023-08-08,OXXO CENTRO,100.00,0.00,-100.00,expenses,Convenience Stores\n"
	assert.Equal(t, expected, string(content))

	assert.Contains(t, stdout, "agosto.pdf: 2 transactions")
	assert.Contains(t, stdout, "pages scanned 1")
}

func TestConvertCommand_IsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	_, err := run(t, memoryOpener(santanderStatement()), "convert", "-b", "santander-debito", "-i", "a.pdf", "-o", first)
	require.NoError(t, err)
	_, err = run(t, memoryOpener(santanderStatement()), "convert", "-b", "santander-debito", "-i", "a.pdf", "-o", second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestConvertCommand_DefaultOutputPath(t *testing.T) {
	input := filepath.Join(t.TempDir(), "estado.pdf")

	_, err := run(t, memoryOpener(santanderStatement()), "convert", "-b", "santander-debito", "-i", input)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(filepath.Dir(input), "estado.csv"))
}

func TestConvertCommand_UnreadableDocumentWritesNothing(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.csv")
	broken := func(path string) (document.Document, error) {
		return nil, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "not a PDF"}
	}

	_, err := run(t, broken, "convert", "-b", "santander-debito", "-i", "broken.pdf", "-o", output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrDocumentUnreadable))
	assert.NoFileExists(t, output)
}

func TestConvertCommand_ValidatesFlags(t *testing.T) {
	_, err := run(t, memoryOpener(santanderStatement()), "convert", "-b", "santander-debito")
	require.Error(t, err)
	assert.Equal(t, parsererror.KindValidation, parsererror.KindOf(err))

	_, err = run(t, memoryOpener(santanderStatement()), "convert", "-i", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--bank is required")

	_, err = run(t, memoryOpener(santanderStatement()), "convert", "-b", "hsbc", "-i", "a.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrUnknownProfile))
}
