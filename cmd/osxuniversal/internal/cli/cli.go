// Package cli holds helpers shared by the osxuniversal subcommands.
package cli

import (
	"github.com/marve/cerbero/pkg/config"
	"github.com/marve/cerbero/pkg/runner"
	"github.com/spf13/cobra"
)

// LoadConfig loads the configuration named by the global --config flag
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path = ""
	}
	return config.Load(path)
}

// NewRunner returns a command runner honoring the configured timeout
func NewRunner(cfg *config.Config) runner.Runner {
	return runner.New(runner.Options{Timeout: cfg.Tools.Timeout})
}
