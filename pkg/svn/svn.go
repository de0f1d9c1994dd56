// Package svn wraps the subversion commands used to fetch sources.
package svn

import (
	"context"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/runner"
	"github.com/marve/cerbero/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultCommand is the subversion client binary
	DefaultCommand = "svn"
	// HeadRevision is the latest revision of a repository
	HeadRevision = "HEAD"
)

// Client runs svn through a runner.Runner
type Client struct {
	runner  runner.Runner
	fs      types.FS
	command string
	logger  zerolog.Logger
}

// New creates a Client. An empty command means DefaultCommand.
func New(r runner.Runner, fs types.FS, command string) *Client {
	if command == "" {
		command = DefaultCommand
	}
	return &Client{
		runner:  r,
		fs:      fs,
		command: command,
		logger:  logging.GetLogger("svn"),
	}
}

// Checkout checks url out inside dest, creating dest if needed
func (c *Client) Checkout(ctx context.Context, url, dest string) error {
	if url == "" || dest == "" {
		return errors.New(errors.ErrInvalidInput, "checkout needs a url and a destination")
	}
	if err := c.fs.MkdirAll(dest, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dest).
			WithDetail("path", dest)
	}

	c.logger.Info().Str("url", url).Str("dest", dest).Msg("Checking out")
	_, err := c.runner.Run(ctx, dest, c.command, "co", url)
	return err
}

// Update moves the working copy at repo to revision, HEAD when empty
func (c *Client) Update(ctx context.Context, repo, revision string) error {
	if repo == "" {
		return errors.New(errors.ErrInvalidInput, "update needs a working copy")
	}
	if revision == "" {
		revision = HeadRevision
	}

	c.logger.Info().Str("repo", repo).Str("revision", revision).Msg("Updating")
	_, err := c.runner.Run(ctx, repo, c.command, "up", "-r", revision)
	return err
}

// ExportFile writes the single file at url to outPath, overwriting it
func (c *Client) ExportFile(ctx context.Context, url, outPath string) error {
	if url == "" || outPath == "" {
		return errors.New(errors.ErrInvalidInput, "export needs a url and an output path")
	}

	c.logger.Info().Str("url", url).Str("out", outPath).Msg("Exporting")
	_, err := c.runner.Run(ctx, "", c.command, "export", "--force", url, outPath)
	return err
}
