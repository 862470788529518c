package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OmenApps/stratagem/config"
)

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "config:init",
	Short: "Write a default configuration file",
	Long: `Write the default stratagem configuration to a file.

Fails when the target file already exists.

Examples:
  stratagem config:init
  stratagem config:init --path ./stratagem.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteDefault(configInitPath); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", configInitPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitPath, "path", "p", ".stratagem/config.yaml", "Target config file path")
	rootCmd.AddCommand(configInitCmd)
}
