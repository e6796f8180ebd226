package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/treekey/treepages/internal/config"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// loadConfig loads the config file, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `treepages init` to create a config file", err)
	}
	logger.Debug("loaded config", "path", cfgFile)
	return cfg, nil
}
