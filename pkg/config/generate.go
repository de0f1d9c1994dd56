package config

import (
	"github.com/marve/cerbero/pkg/actiontable"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// fileView is the TOML shape of a Config
type fileView struct {
	Tools struct {
		File     string   `toml:"file"`
		FileArgs []string `toml:"file_args"`
		Lipo     string   `toml:"lipo"`
		Svn      string   `toml:"svn"`
		Timeout  string   `toml:"timeout"`
	} `toml:"tools"`
	Merge struct {
		Jobs                int      `toml:"jobs"`
		Extensions          []string `toml:"extensions"`
		ContinueOnToolError bool     `toml:"continue_on_tool_error"`
	} `toml:"merge"`
	Report struct {
		Format string `toml:"format"`
	} `toml:"report"`
	Rules []actiontable.Rule `toml:"rules,omitempty"`
}

// Generate serializes cfg as a TOML config file that Load reads back
func Generate(cfg *Config) ([]byte, error) {
	var v fileView
	v.Tools.File = cfg.Tools.File
	v.Tools.FileArgs = nonNil(cfg.Tools.FileArgs)
	v.Tools.Lipo = cfg.Tools.Lipo
	v.Tools.Svn = cfg.Tools.Svn
	v.Tools.Timeout = cfg.Tools.Timeout.String()
	v.Merge.Jobs = cfg.Merge.Jobs
	v.Merge.Extensions = nonNil(cfg.Merge.Extensions)
	v.Merge.ContinueOnToolError = cfg.Merge.ContinueOnToolError
	v.Report.Format = cfg.Report.Format
	v.Rules = cfg.Rules

	out, err := toml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to generate config")
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
