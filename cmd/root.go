// Package cmd wires the stratagem management CLI: inspecting plugin
// manifests, validating them against the catalog, and bootstrapping a
// configuration file.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OmenApps/stratagem/config"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "stratagem",
	Short:   "Manage stratagem registries and plugins",
	Long: `Management commands for stratagem registries: inspect plugin
manifests, validate them against the implementation catalog, and generate
a starter configuration file.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .stratagem/config.yaml)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("cache_ttl", defaults.CacheTTL)
	viper.SetDefault("skip_during_maintenance", defaults.SkipDuringMaintenance)
	viper.SetDefault("plugin_dir", defaults.PluginDir)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .stratagem/config.yaml (current directory)
		// 2. ~/.config/stratagem/config.yaml (user config)
		if _, err := os.Stat(".stratagem/config.yaml"); err == nil {
			viper.SetConfigFile(".stratagem/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "stratagem"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Missing config file is fine, defaults apply
	_ = viper.ReadInConfig()

	loaded, err := config.Load()
	if err == nil {
		cfg = loaded
		config.Replace(cfg)
	} else {
		cfg = config.Defaults()
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
