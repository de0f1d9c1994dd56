package config

import (
	"time"

	"github.com/marve/cerbero/pkg/actiontable"
)

// Config is the complete configuration
type Config struct {
	Tools  Tools  `koanf:"tools"`
	Merge  Merge  `koanf:"merge"`
	Report Report `koanf:"report"`
	// Rules are evaluated before the built-in action table
	Rules []actiontable.Rule `koanf:"rules"`
}

// Tools names the external commands
type Tools struct {
	File     string        `koanf:"file"`
	FileArgs []string      `koanf:"file_args"`
	Lipo     string        `koanf:"lipo"`
	Svn      string        `koanf:"svn"`
	Timeout  time.Duration `koanf:"timeout"`
}

// Merge holds the merge run defaults
type Merge struct {
	Jobs                int      `koanf:"jobs"`
	Extensions          []string `koanf:"extensions"`
	ContinueOnToolError bool     `koanf:"continue_on_tool_error"`
}

// Report holds report output settings
type Report struct {
	Format string `koanf:"format"`
}

// Table returns the action table with the configured rules first
func (c *Config) Table() actiontable.Table {
	if len(c.Rules) == 0 {
		return actiontable.Default()
	}
	return actiontable.Default().Prepend(c.Rules...)
}
