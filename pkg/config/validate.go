package config

import (
	"github.com/marve/cerbero/pkg/actiontable"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/report"
)

// Validate checks values that cannot be expressed by types alone
func (c *Config) Validate() error {
	if c.Tools.File == "" {
		return errors.New(errors.ErrConfigValid, "tools.file must not be empty")
	}
	if c.Tools.Lipo == "" {
		return errors.New(errors.ErrConfigValid, "tools.lipo must not be empty")
	}
	if c.Tools.Svn == "" {
		return errors.New(errors.ErrConfigValid, "tools.svn must not be empty")
	}
	if c.Tools.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "tools.timeout must be positive, got %s", c.Tools.Timeout).
			WithDetail("timeout", c.Tools.Timeout.String())
	}
	if c.Merge.Jobs < 1 {
		return errors.Newf(errors.ErrConfigValid, "merge.jobs must be at least 1, got %d", c.Merge.Jobs).
			WithDetail("jobs", c.Merge.Jobs)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid report.format").
			WithDetail("format", c.Report.Format)
	}
	return actiontable.Table(c.Rules).Validate()
}
