// Package config provides the operator configuration surface for stratagem.
//
// Options are read through viper so hosts can source them from a YAML file,
// environment variables, or programmatic overrides. The effective
// configuration is held in a guarded process-wide value; registries read it
// when they are constructed, plugin loaders and the discovery orchestrator
// read it on every run.
package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/OmenApps/stratagem/internal/flags"
	"github.com/OmenApps/stratagem/internal/log"
	"github.com/OmenApps/stratagem/internal/tracing"
)

// Config holds all stratagem options.
type Config struct {
	// CacheTTL is the expiration for per-registry cache regions.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// SkipDuringMaintenance suppresses discovery while the maintenance
	// latch is set (schema-migration-like phases where importing
	// implementation code is unsafe).
	SkipDuringMaintenance bool `mapstructure:"skip_during_maintenance"`

	// EnabledPlugins is an explicit allow-list. Nil means "all".
	// When non-empty it is authoritative and DisabledPlugins is ignored.
	EnabledPlugins []string `mapstructure:"enabled_plugins"`

	// DisabledPlugins excludes plugins by name when no allow-list is set.
	DisabledPlugins []string `mapstructure:"disabled_plugins"`

	// PluginDir is the directory scanned for plugin manifests.
	PluginDir string `mapstructure:"plugin_dir"`

	// Flags is the static feature flag table consulted by
	// feature-flag conditions before any external flag service.
	Flags map[string]bool `mapstructure:"flags"`

	// Settings backs setting-value conditions.
	Settings map[string]any `mapstructure:"settings"`

	// Tracing configures the discovery tracer.
	Tracing tracing.Config `mapstructure:"tracing"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		CacheTTL:              300 * time.Second,
		SkipDuringMaintenance: true,
		EnabledPlugins:        nil,
		DisabledPlugins:       []string{},
		PluginDir:             "plugins",
		Flags:                 map[string]bool{},
		Settings:              map[string]any{},
		Tracing:               tracing.DefaultConfig(),
	}
}

// Load unmarshals the current viper state over the defaults.
func Load() (Config, error) {
	cfg := Defaults()
	if err := viper.Unmarshal(&cfg); err != nil {
		log.ErrorErr(log.CatConfig, "failed to unmarshal config", err)
		return Defaults(), err
	}
	return cfg, nil
}

var (
	currentMu sync.RWMutex
	current   = Defaults()
	flagTable = flags.New(nil)
)

// Current returns the effective process-wide configuration.
func Current() Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Replace installs a new effective configuration.
// Registries constructed afterwards pick up the new cache TTL;
// policy and flag lookups see it immediately.
func Replace(cfg Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = cfg
	flagTable = flags.New(cfg.Flags)
	log.Info(log.CatConfig, "configuration replaced",
		"cache_ttl", cfg.CacheTTL,
		"plugin_dir", cfg.PluginDir,
		"enabled_plugins", len(cfg.EnabledPlugins),
		"disabled_plugins", len(cfg.DisabledPlugins))
}

// Reset restores the default configuration. Intended for tests.
func Reset() {
	Replace(Defaults())
}

// FlagTable returns the static feature flag table.
func FlagTable() *flags.Registry {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return flagTable
}

// Setting returns a named configuration setting and whether it exists.
// Values set programmatically via Replace win over viper-sourced ones.
func Setting(name string) (any, bool) {
	currentMu.RLock()
	settings := current.Settings
	currentMu.RUnlock()

	if value, ok := settings[name]; ok {
		return value, true
	}
	if viper.IsSet("settings." + name) {
		return viper.Get("settings." + name), true
	}
	return nil, false
}

// CacheTTL returns the effective cache expiration.
func CacheTTL() time.Duration {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current.CacheTTL
}
