package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	logger  = newLogger(os.Stderr, log.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   "treepages",
	Short: "Static site generator for identification keys and decision trees",
	Long: `treepages reads a hierarchical model (a JSON tree of nodes, branches,
photos and definitions) and compiles it into a static HTML site: one page
per node, or a single self-contained page with inlined styles and images.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".treepages.yml", "config file path (.yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "logall", false, "alias for --verbose")
	_ = rootCmd.PersistentFlags().MarkHidden("logall")
}
