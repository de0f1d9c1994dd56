// Package classifier obtains file type descriptions from an external
// classification command such as file(1).
package classifier

import (
	"context"
	"strings"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/runner"
)

// DefaultCommand and DefaultArgs describe `file -bh <path>`: brief output
// without the file name, symbolic links not followed.
const DefaultCommand = "file"

// DefaultArgs are passed before the path
var DefaultArgs = []string{"-bh"}

// Classifier returns a type description for a file
type Classifier interface {
	Classify(ctx context.Context, path string) (string, error)
}

// FileCommand classifies files by running an external command
type FileCommand struct {
	runner  runner.Runner
	command string
	args    []string
}

// NewFileCommand creates a classifier running command with args followed by
// the file path. Empty values fall back to DefaultCommand and DefaultArgs.
func NewFileCommand(r runner.Runner, command string, args []string) *FileCommand {
	if command == "" {
		command = DefaultCommand
	}
	if args == nil {
		args = DefaultArgs
	}
	return &FileCommand{
		runner:  r,
		command: command,
		args:    append([]string(nil), args...),
	}
}

// Classify runs the command and returns its output with trailing
// whitespace removed.
func (c *FileCommand) Classify(ctx context.Context, path string) (string, error) {
	args := append(append([]string(nil), c.args...), path)

	res, err := c.runner.Run(ctx, "", c.command, args...)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrExternalTool, "failed to classify %s", path).
			WithDetail("path", path)
	}

	return strings.TrimRight(res.Stdout, " \t\r\n"), nil
}
