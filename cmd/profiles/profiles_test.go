package profiles_test

import (
	"bytes"
	"os"
	"testing"

	"edocta/edocta-csv/cmd/profiles"
	"edocta/edocta-csv/cmd/root"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Cmd.AddCommand(profiles.Cmd)
	os.Exit(m.Run())
}

func TestProfilesCommand_ListsEveryProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(root.Reset)

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs([]string{"profiles"})
	require.NoError(t, root.Cmd.Execute())

	stdout := out.String()
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "bbva-credito")
	assert.Contains(t, stdout, "2..N-3")
	assert.Contains(t, stdout, "bbva-debito")
	assert.Contains(t, stdout, "citibanamex-empresarial")
	assert.Contains(t, stdout, "santander-debito")
	assert.Contains(t, stdout, "DD-MON-YYYY")
	assert.Contains(t, stdout, "DD/MM/YY")
}
