package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marve/cerbero/pkg/actiontable"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG config home at an empty directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Tools.File)
	assert.Equal(t, []string{"-bh"}, cfg.Tools.FileArgs)
	assert.Equal(t, "lipo", cfg.Tools.Lipo)
	assert.Equal(t, "svn", cfg.Tools.Svn)
	assert.Equal(t, 5*time.Minute, cfg.Tools.Timeout)
	assert.Equal(t, 1, cfg.Merge.Jobs)
	assert.Empty(t, cfg.Merge.Extensions)
	assert.False(t, cfg.Merge.ContinueOnToolError)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Empty(t, cfg.Rules)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, actiontable.Default(), cfg.Table())
}

func TestLoad_NoUserFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Merge.Jobs)
}

func TestLoad_XDGFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, "osxuniversal", "config.toml"), `
[merge]
jobs = 4
extensions = ["a", "dylib"]
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Merge.Jobs)
	assert.Equal(t, []string{"a", "dylib"}, cfg.Merge.Extensions)
	// untouched sections keep their defaults
	assert.Equal(t, "lipo", cfg.Tools.Lipo)
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "custom.toml"), `
[tools]
lipo = "/usr/bin/lipo"
timeout = "30s"

[report]
format = "json"

[[rules]]
match = "Java archive"
action = "copy"

[[rules]]
match = "ar archive"
action = "skip"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/lipo", cfg.Tools.Lipo)
	assert.Equal(t, 30*time.Second, cfg.Tools.Timeout)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, []actiontable.Rule{
		{Match: "Java archive", Action: types.ActionCopy},
		{Match: "ar archive", Action: types.ActionSkip},
	}, cfg.Rules)

	// configured rules win over the built-in ones
	action, err := cfg.Table().Resolve("current ar archive")
	require.NoError(t, err)
	assert.Equal(t, types.ActionSkip, action)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_InvalidTOML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "bad.toml"), "[merge\njobs = ")

	_, err := Load(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("OSXUNIVERSAL_MERGE__JOBS", "8")
	t.Setenv("OSXUNIVERSAL_MERGE__CONTINUE_ON_TOOL_ERROR", "true")
	t.Setenv("OSXUNIVERSAL_MERGE__EXTENSIONS", "a,o")
	t.Setenv("OSXUNIVERSAL_TOOLS__TIMEOUT", "90s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Merge.Jobs)
	assert.True(t, cfg.Merge.ContinueOnToolError)
	assert.Equal(t, []string{"a", "o"}, cfg.Merge.Extensions)
	assert.Equal(t, 90*time.Second, cfg.Tools.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, "osxuniversal", "config.toml"), "[report]\nformat = \"yaml\"\n")
	t.Setenv("OSXUNIVERSAL_REPORT__FORMAT", "xml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "xml", cfg.Report.Format)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("OSXUNIVERSAL_MERGE__JOBS", "0")

	_, err := Load("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "merge.jobs", envKey("OSXUNIVERSAL_MERGE__JOBS"))
	assert.Equal(t, "merge.continue_on_tool_error", envKey("OSXUNIVERSAL_MERGE__CONTINUE_ON_TOOL_ERROR"))
	assert.Equal(t, "tools.file_args", envKey("OSXUNIVERSAL_TOOLS__FILE_ARGS"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty file tool", func(c *Config) { c.Tools.File = "" }},
		{"empty lipo", func(c *Config) { c.Tools.Lipo = "" }},
		{"empty svn", func(c *Config) { c.Tools.Svn = "" }},
		{"zero timeout", func(c *Config) { c.Tools.Timeout = 0 }},
		{"zero jobs", func(c *Config) { c.Merge.Jobs = 0 }},
		{"unknown format", func(c *Config) { c.Report.Format = "csv" }},
		{"unknown rule action", func(c *Config) {
			c.Rules = []actiontable.Rule{{Match: "x", Action: "explode"}}
		}},
		{"empty rule match", func(c *Config) {
			c.Rules = []actiontable.Rule{{Match: "", Action: types.ActionCopy}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.modify(cfg)
			assert.True(t, errors.IsErrorCode(cfg.Validate(), errors.ErrConfigValid))
		})
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	isolate(t)
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Merge.Jobs = 3
	cfg.Rules = []actiontable.Rule{{Match: "Java archive", Action: types.ActionCopy}}

	out, err := Generate(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[tools]")
	assert.Contains(t, string(out), "[[rules]]")

	path := writeConfig(t, filepath.Join(t.TempDir(), "gen.toml"), string(out))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGenerate_Defaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	out, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "[[rules]]")
	assert.Contains(t, string(out), "5m0s")
}

func TestDefaultContent(t *testing.T) {
	assert.Contains(t, DefaultContent(), "[merge]")
}
