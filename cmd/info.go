package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treekey/treepages/internal/model"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print statistics about a model",
	Long:  `Loads and validates the model and prints its node count, depth and branch count. No files are written.`,
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringP("data", "d", "", "model file (defaults to the configured model)")
	infoCmd.Flags().Bool("json", false, "print the statistics as JSON")
	infoCmd.Flags().Bool("dump", false, "print the normalized model as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("data")
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Model
	}

	tree, err := model.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded model", "path", path, "nodes", tree.Len())

	out := cmd.OutOrStdout()
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		return tree.WriteJSON(out)
	}

	stats := model.ComputeStats(tree)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	title := tree.Title
	if title == "" {
		title = path
	}
	if tree.Version != "" {
		title = fmt.Sprintf("%s (%s)", title, tree.Version)
	}
	printTitle(out, title)
	printKeyNumber(out, "Nodes", stats.Nodes)
	printKeyNumber(out, "Depth", stats.Depth)
	printKeyNumber(out, "Branches", stats.Branches)
	printKeyNumber(out, "Leaves", stats.Leaves)
	printKeyNumber(out, "Media", stats.Media)
	printKeyNumber(out, "Definitions", stats.Definitions)
	printKeyValue(out, "Fingerprint", stats.Fingerprint)
	return nil
}
