package root_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edocta/edocta-csv/cmd/root"
	"edocta/edocta-csv/internal/parsererror"
	"edocta/edocta-csv/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "edocta-csv", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "Mexican bank statement PDFs")
	assert.NotNil(t, root.Cmd.RunE)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	for name, shorthand := range map[string]string{"input": "i", "output": "o", "bank": "b", "config": ""} {
		flag := root.Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, shorthand, flag.Shorthand, name)
	}
	assert.Contains(t, root.Cmd.PersistentFlags().Lookup("bank").Usage, "santander-debito")
}

func TestRootCommand_BuildsContainer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(root.Reset)

	root.Cmd.SetOut(&bytes.Buffer{})
	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs([]string{})
	require.NoError(t, root.Cmd.Execute())

	require.NotNil(t, root.GetContainer())
	assert.NotNil(t, root.GetLogger())
	require.NoError(t, root.Shutdown())
	assert.Nil(t, root.GetContainer())
	assert.NotNil(t, root.GetLogger(), "falls back to the shared logger")
}

func TestRootCommand_InvalidConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(root.Reset)

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: loud\n"), 0600))

	root.Cmd.SetOut(&bytes.Buffer{})
	root.Cmd.SetErr(&bytes.Buffer{})
	root.Cmd.SetArgs([]string{"--config", configFile})
	err := root.Cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, parsererror.KindValidation, parsererror.KindOf(err))
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestResolveProfile(t *testing.T) {
	t.Cleanup(root.Reset)

	root.SharedFlags.Bank = ""
	_, err := root.ResolveProfile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bbva-debito")

	root.SharedFlags.Bank = "bbva-debito"
	prof, err := root.ResolveProfile()
	require.NoError(t, err)
	assert.Equal(t, profile.BBVADebito, prof.Kind)

	root.SharedFlags.Bank = "banorte"
	_, err = root.ResolveProfile()
	assert.True(t, errors.Is(err, parsererror.ErrUnknownProfile))
}
