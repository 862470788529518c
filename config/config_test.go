package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, 300*time.Second, cfg.CacheTTL)
	require.True(t, cfg.SkipDuringMaintenance)
	require.Nil(t, cfg.EnabledPlugins)
	require.Empty(t, cfg.DisabledPlugins)
	require.Equal(t, "plugins", cfg.PluginDir)
	require.Empty(t, cfg.Flags)
	require.Empty(t, cfg.Settings)
	require.False(t, cfg.Tracing.Enabled)
}

func TestReplaceAndCurrent(t *testing.T) {
	t.Cleanup(Reset)

	cfg := Defaults()
	cfg.CacheTTL = 30 * time.Second
	cfg.PluginDir = "custom-plugins"
	Replace(cfg)

	require.Equal(t, 30*time.Second, Current().CacheTTL)
	require.Equal(t, 30*time.Second, CacheTTL())
	require.Equal(t, "custom-plugins", Current().PluginDir)

	Reset()
	require.Equal(t, 300*time.Second, CacheTTL())
}

func TestFlagTable(t *testing.T) {
	t.Cleanup(Reset)

	cfg := Defaults()
	cfg.Flags = map[string]bool{"checkout_v2": true, "legacy_export": false}
	Replace(cfg)

	table := FlagTable()
	require.True(t, table.Known("checkout_v2"))
	require.True(t, table.Enabled("checkout_v2"))
	require.True(t, table.Known("legacy_export"))
	require.False(t, table.Enabled("legacy_export"))
	require.False(t, table.Known("unheard_of"))
	require.False(t, table.Enabled("unheard_of"))
}

func TestSetting(t *testing.T) {
	t.Cleanup(func() {
		Reset()
		viper.Reset()
	})

	t.Run("programmatic settings win", func(t *testing.T) {
		cfg := Defaults()
		cfg.Settings = map[string]any{"billing_mode": "invoice"}
		Replace(cfg)
		viper.Set("settings.billing_mode", "card")

		value, ok := Setting("billing_mode")
		require.True(t, ok)
		require.Equal(t, "invoice", value)
	})

	t.Run("viper fallback", func(t *testing.T) {
		Reset()
		viper.Set("settings.region", "eu-west-1")

		value, ok := Setting("region")
		require.True(t, ok)
		require.Equal(t, "eu-west-1", value)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := Setting("never_configured")
		require.False(t, ok)
	})
}

func TestLoad(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	viper.Set("cache_ttl", "45s")
	viper.Set("plugin_dir", "/opt/plugins")
	viper.Set("disabled_plugins", []string{"legacy"})

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, cfg.CacheTTL)
	require.Equal(t, "/opt/plugins", cfg.PluginDir)
	require.Equal(t, []string{"legacy"}, cfg.DisabledPlugins)

	// Untouched keys keep their defaults
	require.True(t, cfg.SkipDuringMaintenance)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "cache_ttl: 5m0s")
	require.Contains(t, string(data), "plugin_dir: plugins")

	t.Run("refuses to overwrite", func(t *testing.T) {
		require.Error(t, WriteDefault(path))
	})
}
