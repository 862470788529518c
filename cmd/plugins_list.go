package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/OmenApps/stratagem/plugin"
)

var pluginsDir string

type pluginListEntry struct {
	Name            string   `json:"name"`
	Version         string   `json:"version,omitempty"`
	Registry        string   `json:"registry"`
	Implementations []string `json:"implementations"`
	Allowed         bool     `json:"allowed"`
}

var pluginsListCmd = &cobra.Command{
	Use:   "plugins:list",
	Short: "List discovered plugin manifests",
	Long: `List every plugin manifest discovered in the plugin directory as JSON.

Each entry shows the plugin's target registry, its implementation
references, and whether the configured plugin policy would load it.

Examples:
  # List plugins from the configured plugin directory
  stratagem plugins:list

  # List plugins from an explicit directory
  stratagem plugins:list --dir ./my-plugins

  # Parse specific fields with jq
  stratagem plugins:list | jq '.[].name'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := pluginsDir
		if dir == "" {
			dir = cfg.PluginDir
		}

		loader := &plugin.Loader{
			Sources: []plugin.Source{plugin.NewManifestSource(dir)},
			Policy:  plugin.Policy{Enabled: cfg.EnabledPlugins, Disabled: cfg.DisabledPlugins},
		}

		entries := make([]pluginListEntry, 0)
		for _, desc := range loader.Discover(cmd.Context()) {
			entries = append(entries, pluginListEntry{
				Name:            desc.Name,
				Version:         desc.Version,
				Registry:        desc.Registry,
				Implementations: desc.Implementations,
				Allowed:         loader.Policy.Allows(desc.Name),
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	pluginsListCmd.Flags().StringVarP(&pluginsDir, "dir", "d", "", "Plugin manifest directory (default: configured plugin_dir)")
	rootCmd.AddCommand(pluginsListCmd)
}
