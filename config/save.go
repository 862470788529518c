package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with yaml tags for serialization.
type fileConfig struct {
	CacheTTL              string            `yaml:"cache_ttl"`
	SkipDuringMaintenance bool              `yaml:"skip_during_maintenance"`
	EnabledPlugins        []string          `yaml:"enabled_plugins,omitempty"`
	DisabledPlugins       []string          `yaml:"disabled_plugins"`
	PluginDir             string            `yaml:"plugin_dir"`
	Flags                 map[string]bool   `yaml:"flags"`
	Settings              map[string]any    `yaml:"settings"`
	Tracing               fileTracingConfig `yaml:"tracing"`
}

type fileTracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// WriteDefault writes the default configuration to path, creating parent
// directories as needed. Fails if the file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaults := Defaults()
	out := fileConfig{
		CacheTTL:              defaults.CacheTTL.String(),
		SkipDuringMaintenance: defaults.SkipDuringMaintenance,
		DisabledPlugins:       defaults.DisabledPlugins,
		PluginDir:             defaults.PluginDir,
		Flags:                 defaults.Flags,
		Settings:              defaults.Settings,
		Tracing: fileTracingConfig{
			Enabled:  defaults.Tracing.Enabled,
			Exporter: defaults.Tracing.Exporter,
		},
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // config file is not sensitive
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
