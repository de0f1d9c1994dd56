// Package fuser creates universal binaries from single-architecture inputs
// by running an external fusion tool such as lipo(1).
package fuser

import (
	"context"
	"os"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/runner"
	"github.com/marve/cerbero/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultCommand is the fusion tool run by Lipo
const DefaultCommand = "lipo"

// Fuser fuses per-architecture files into one output file
type Fuser interface {
	Fuse(ctx context.Context, output string, inputs []string) error
}

// Lipo runs `lipo -create <inputs...> -output <output>`
type Lipo struct {
	runner  runner.Runner
	fs      types.FS
	command string
	logger  zerolog.Logger
}

// NewLipo creates a Lipo fuser. An empty command falls back to DefaultCommand.
func NewLipo(r runner.Runner, fs types.FS, command string) *Lipo {
	if command == "" {
		command = DefaultCommand
	}
	return &Lipo{
		runner:  r,
		fs:      fs,
		command: command,
		logger:  logging.GetLogger("fuser"),
	}
}

// Fuse runs the tool and verifies it produced a non-empty output file.
// On any failure the output path is removed so no partial universal
// binary is left behind.
func (l *Lipo) Fuse(ctx context.Context, output string, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New(errors.ErrInvalidInput, "fusion requires at least one input").
			WithDetail("output", output)
	}

	args := make([]string, 0, len(inputs)+3)
	args = append(args, "-create")
	args = append(args, inputs...)
	args = append(args, "-output", output)

	// the output check below must only see what this run produced
	if err := l.fs.Remove(output); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot replace %s", output).
			WithDetail("output", output)
	}

	if _, err := l.runner.Run(ctx, "", l.command, args...); err != nil {
		l.discard(output)
		return errors.Wrapf(err, errors.ErrExternalTool, "failed to create universal file %s", output).
			WithDetail("output", output).
			WithDetail("inputs", inputs)
	}

	info, err := l.fs.Stat(output)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExternalTool, "%s produced no output file %s", l.command, output).
			WithDetail("output", output).
			WithDetail("inputs", inputs)
	}
	if info.Size() == 0 {
		l.discard(output)
		return errors.Newf(errors.ErrExternalTool, "%s produced an empty output file %s", l.command, output).
			WithDetail("output", output).
			WithDetail("inputs", inputs)
	}

	return nil
}

func (l *Lipo) discard(output string) {
	if err := l.fs.Remove(output); err != nil && !os.IsNotExist(err) {
		l.logger.Warn().
			Err(err).
			Str("output", output).
			Msg("Failed to remove partial output")
	}
}
