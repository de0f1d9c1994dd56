// Package runner executes external commands for the classifier, the fusion
// tool and the svn helpers.
package runner

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single external command
const DefaultTimeout = 5 * time.Minute

// Result holds the captured output of a command
type Result struct {
	Stdout string
	Stderr string
}

// Runner runs one external command to completion
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Options configures an ExecRunner
type Options struct {
	Timeout time.Duration
	// Logger defaults to the "runner" component logger when nil
	Logger *zerolog.Logger
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates a new ExecRunner
func New(opts Options) *ExecRunner {
	logger := logging.GetLogger("runner")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ExecRunner{
		timeout: timeout,
		logger:  logger,
	}
}

// Run executes name with args in dir (the current directory when empty).
// A non-zero exit status or a failure to start is an ErrExternalTool error
// carrying the command, its arguments and stderr.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	logging.LogCommand(r.logger, name, args)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		r.logger.Error().
			Err(err).
			Str("command", name).
			Strs("args", args).
			Str("stderr", strings.TrimSpace(result.Stderr)).
			Msg("Command execution failed")

		return result, errors.Wrapf(err, errors.ErrExternalTool, "command failed: %s", name).
			WithDetail("command", name).
			WithDetail("args", args).
			WithDetail("stderr", strings.TrimSpace(result.Stderr))
	}

	r.logger.Trace().
		Str("command", name).
		Dur("duration", time.Since(start)).
		Str("stdout", result.Stdout).
		Msg("Command executed successfully")

	return result, nil
}
