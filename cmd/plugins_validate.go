package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OmenApps/stratagem/plugin"
)

var validateDir string

var pluginsValidateCmd = &cobra.Command{
	Use:   "plugins:validate",
	Short: "Validate plugin manifests against the catalog",
	Long: `Validate every plugin manifest in the plugin directory.

Checks that each manifest parses, carries the required fields, and that
every implementation reference it names exists in the process catalog.
Exits non-zero when any manifest fails.

Examples:
  stratagem plugins:validate
  stratagem plugins:validate --dir ./my-plugins`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := validateDir
		if dir == "" {
			dir = cfg.PluginDir
		}

		source := plugin.NewManifestSource(dir)
		descs, err := source.Discover(cmd.Context())
		if err != nil {
			return fmt.Errorf("discovering plugins: %w", err)
		}

		failures := 0
		for _, desc := range descs {
			for _, ref := range desc.Implementations {
				if _, ok := plugin.DefaultCatalog.Lookup(ref); !ok {
					fmt.Fprintf(os.Stderr, "plugin %q: reference %q not in catalog\n", desc.Name, ref)
					failures++
				}
			}
		}

		if failures > 0 {
			return fmt.Errorf("%d invalid plugin reference(s)", failures)
		}
		fmt.Printf("%d plugin(s) valid\n", len(descs))
		return nil
	},
}

func init() {
	pluginsValidateCmd.Flags().StringVarP(&validateDir, "dir", "d", "", "Plugin manifest directory (default: configured plugin_dir)")
	rootCmd.AddCommand(pluginsValidateCmd)
}
