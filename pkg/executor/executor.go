package executor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/filesystem"
	"github.com/marve/cerbero/pkg/fuser"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/types"
	"github.com/rs/zerolog"
)

// Outcome describes what Execute did for one task
type Outcome string

const (
	OutcomeCopied  Outcome = "copied"
	OutcomeLinked  Outcome = "linked"
	OutcomeExists  Outcome = "exists"
	OutcomeFused   Outcome = "fused"
	OutcomeSkipped Outcome = "skipped"
	OutcomePlanned Outcome = "planned"
)

// dirPerm is used for every directory created under the output root
const dirPerm = 0755

// Task is one resolved file to write into the output tree
type Task struct {
	RelPath string
	Name    string
	// DestDir is the output directory for the file
	DestDir string
	Action  types.Action
	// Files are the existing copies, primary first
	Files []string
}

// Dest returns the destination file path
func (t Task) Dest() string {
	return filepath.Join(t.DestDir, t.Name)
}

// Options contains configuration for the executor
type Options struct {
	FS     types.FS
	Fuser  fuser.Fuser
	DryRun bool
	// Logger defaults to the "executor" component logger when nil
	Logger *zerolog.Logger
}

// Executor applies merge actions
type Executor struct {
	fs     types.FS
	fuser  fuser.Fuser
	dryRun bool
	logger zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Executor{
		fs:     fs,
		fuser:  opts.Fuser,
		dryRun: opts.DryRun,
		logger: logger,
	}
}

// Execute performs the task's action
func (e *Executor) Execute(ctx context.Context, task Task) (Outcome, error) {
	start := time.Now()

	if len(task.Files) == 0 {
		return "", errors.Newf(errors.ErrInvalidInput, "no input files for %s", task.RelPath).
			WithDetail("path", task.RelPath)
	}

	if e.dryRun {
		if !task.Action.Valid() {
			return "", unknownAction(task)
		}
		e.logger.Info().
			Str("path", task.RelPath).
			Str("action", task.Action.String()).
			Str("dest", task.Dest()).
			Msg("Dry run - no changes made")
		return OutcomePlanned, nil
	}

	var (
		outcome Outcome
		err     error
	)
	switch task.Action {
	case types.ActionCopy:
		outcome, err = e.copy(task)
	case types.ActionLink:
		outcome, err = e.link(task)
	case types.ActionMerge:
		outcome, err = e.merge(ctx, task)
	case types.ActionSkip:
		outcome = OutcomeSkipped
	default:
		return "", unknownAction(task)
	}
	if err != nil {
		return "", err
	}

	e.logger.Debug().
		Str("path", task.RelPath).
		Str("action", task.Action.String()).
		Str("outcome", string(outcome)).
		Dur("duration", time.Since(start)).
		Msg("Action executed")

	return outcome, nil
}

func unknownAction(task Task) error {
	return errors.Newf(errors.ErrInvalidInput, "unexpected action %q for %s", task.Action, task.RelPath).
		WithDetail("path", task.RelPath).
		WithDetail("action", string(task.Action))
}

func (e *Executor) ensureDir(dir string) error {
	if err := e.fs.MkdirAll(dir, dirPerm); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir).
			WithDetail("dir", dir)
	}
	return nil
}

// copy streams the primary copy to the destination and applies its
// permission bits; an existing destination is replaced.
func (e *Executor) copy(task Task) (Outcome, error) {
	if err := e.ensureDir(task.DestDir); err != nil {
		return "", err
	}

	src := task.Files[0]
	dest := task.Dest()

	info, err := e.fs.Stat(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", src).WithDetail("path", src)
	}

	in, err := e.fs.Open(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot open %s", src).WithDetail("path", src)
	}
	defer func() { _ = in.Close() }()

	// a previous copy may be read-only or a symlink; start from a fresh file
	if existing, err := e.fs.Lstat(dest); err == nil && !existing.IsDir() {
		if err := e.fs.Remove(dest); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileCreate, "cannot replace %s", dest).WithDetail("path", dest)
		}
	}

	out, err := e.fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "cannot create %s", dest).WithDetail("path", dest)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", errors.Wrapf(err, errors.ErrFileCreate, "failed to copy %s to %s", src, dest).
			WithDetail("path", dest)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "failed to write %s", dest).WithDetail("path", dest)
	}

	// umask may have narrowed the mode at creation
	if err := e.fs.Chmod(dest, info.Mode().Perm()); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "failed to set mode on %s", dest).WithDetail("path", dest)
	}

	return OutcomeCopied, nil
}

// link recreates the primary copy's symlink with the same target string.
// Anything already at the destination, including a dangling link, is kept.
func (e *Executor) link(task Task) (Outcome, error) {
	if err := e.ensureDir(task.DestDir); err != nil {
		return "", err
	}

	dest := task.Dest()
	if _, err := e.fs.Lstat(dest); err == nil {
		e.logger.Debug().Str("dest", dest).Msg("Link exists, skipping")
		return OutcomeExists, nil
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", dest).WithDetail("path", dest)
	}

	src := task.Files[0]
	target, err := e.fs.Readlink(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", src).WithDetail("path", src)
	}

	if err := e.fs.Symlink(target, dest); err != nil {
		return "", errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s -> %s", dest, target).
			WithDetail("path", dest).
			WithDetail("target", target)
	}

	return OutcomeLinked, nil
}

func (e *Executor) merge(ctx context.Context, task Task) (Outcome, error) {
	if e.fuser == nil {
		return "", errors.New(errors.ErrInternal, "no fusion tool configured")
	}
	if err := e.ensureDir(task.DestDir); err != nil {
		return "", err
	}

	if err := e.fuser.Fuse(ctx, task.Dest(), task.Files); err != nil {
		return "", err
	}

	return OutcomeFused, nil
}
