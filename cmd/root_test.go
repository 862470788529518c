package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	require.True(t, names["plugins:list"])
	require.True(t, names["plugins:validate"])
	require.True(t, names["config:init"])
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"config:init", "--path", path})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "plugin_dir")

	t.Run("second run fails on existing file", func(t *testing.T) {
		rootCmd.SetArgs([]string{"config:init", "--path", path})
		require.Error(t, rootCmd.Execute())
	})
}

func TestPluginsListEmptyDir(t *testing.T) {
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"plugins:list", "--dir", dir})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	require.NoError(t, rootCmd.Execute())
}
