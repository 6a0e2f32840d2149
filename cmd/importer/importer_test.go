package importer_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edocta/edocta-csv/cmd/importer"
	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/container"
	"edocta/edocta-csv/internal/document"
	"edocta/edocta-csv/internal/logging"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Cmd.AddCommand(importer.Cmd)
	os.Exit(m.Run())
}

func statement() *document.Memory {
	return document.NewMemory(
		document.Page{Texts: []document.Text{
			document.Word(30, 130, "10-MAR-2024"), document.Word(85, 130, "001"),
			document.Word(120, 130, "PAGO CFE"), document.Word(440, 130, "640.00"),
			document.Word(30, 145, "11-MAR-2024"), document.Word(85, 145, "002"),
			document.Word(120, 145, "DEPOSITO NOMINA"), document.Word(370, 145, "15,000.00"),
		}},
		document.Page{},
	)
}

func opener(path string) (document.Document, error) {
	if filepath.Base(path) == "roto.pdf" {
		return nil, &parsererror.DocumentUnreadableError{FilePath: path, Reason: "zero pages"}
	}
	return statement(), nil
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDOCTA_STORE_DRIVER", "sqlite3")
	t.Setenv("EDOCTA_STORE_DSN", ":memory:")
	root.Reset()
	importer.UserID = ""
	root.SetContainerOptions(
		container.WithLogger(logging.NewDiscardLogger()),
		container.WithDocumentOpener(opener),
	)

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return out.String(), err
}

// storedRows counts the rows owned by user in the store opened by the last run.
func storedRows(t *testing.T, user string) int {
	t.Helper()
	store, err := root.GetContainer().GetRepository()
	require.NoError(t, err)
	repo, ok := store.(*repository.Repository)
	require.True(t, ok)
	count, err := repo.CountByUser(user)
	require.NoError(t, err)
	return count
}

func TestImportCommand_Metadata(t *testing.T) {
	assert.Equal(t, "import", importer.Cmd.Use)
	assert.Contains(t, importer.Cmd.Long, "single unit")
	assert.NotNil(t, importer.Cmd.Flags().Lookup("user"))
}

func TestImportCommand_StoresStatement(t *testing.T) {
	t.Cleanup(root.Reset)
	input := filepath.Join(t.TempDir(), "marzo.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.4"), 0600))

	stdout, err := run(t, "import", "-b", "santander-debito", "-u", "user-9", "-i", input)
	require.NoError(t, err)

	assert.Contains(t, stdout, "marzo.pdf: 2 transactions -> import ")
	assert.Contains(t, stdout, "stored for user user-9")
	assert.Equal(t, 2, storedRows(t, "user-9"))
}

func TestImportCommand_Directory(t *testing.T) {
	t.Cleanup(root.Reset)
	dir := t.TempDir()
	for _, name := range []string{"enero.pdf", "roto.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0600))
	}

	stdout, err := run(t, "import", "-b", "santander-debito", "-u", "user-3", "-i", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "FAILED roto.pdf [DocumentUnreadable]")
	assert.Contains(t, stdout, "OK     enero.pdf: 2 transactions -> import ")
	assert.Equal(t, 2, storedRows(t, "user-3"))
}

func TestImportCommand_RequiresUser(t *testing.T) {
	t.Cleanup(root.Reset)
	_, err := run(t, "import", "-b", "santander-debito", "-i", "marzo.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user is required")
}

func TestImportCommand_UnreadableStatement(t *testing.T) {
	t.Cleanup(root.Reset)
	input := filepath.Join(t.TempDir(), "roto.pdf")
	require.NoError(t, os.WriteFile(input, []byte("garbage"), 0600))

	_, err := run(t, "import", "-b", "santander-debito", "-u", "user-5", "-i", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrDocumentUnreadable))
	assert.Zero(t, storedRows(t, "user-5"))
}
