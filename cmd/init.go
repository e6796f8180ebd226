package cmd

import (
	"github.com/spf13/cobra"

	"github.com/treekey/treepages/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize treepages configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the model, photos and output settings and writes them to the config file (.treepages.yml by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
