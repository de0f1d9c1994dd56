// Package merge combines per-architecture build trees into one universal tree.
//
// Run walks the primary input root. For every file it resolves a single
// action across all input roots and executes it against the output root.
// The result is a report.Report listing processed files, files missing from
// some roots and, when asked to keep going, external tool failures.
package merge

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/marve/cerbero/pkg/actiontable"
	"github.com/marve/cerbero/pkg/classifier"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/executor"
	"github.com/marve/cerbero/pkg/filesystem"
	"github.com/marve/cerbero/pkg/fuser"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/paths"
	"github.com/marve/cerbero/pkg/report"
	"github.com/marve/cerbero/pkg/resolver"
	"github.com/marve/cerbero/pkg/runner"
	"github.com/marve/cerbero/pkg/types"
	"github.com/marve/cerbero/pkg/walker"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures a merge run
type Options struct {
	OutputRoot string
	// InputRoots are the architecture trees; the first one is walked
	InputRoots []string
	// Extensions restricts the run to these file extensions
	Extensions []string
	// Jobs is the number of files processed at once; values below 2 mean sequential
	Jobs int
	// ContinueOnToolError records fusion failures instead of aborting
	ContinueOnToolError bool
	DryRun              bool

	// FS defaults to the OS filesystem
	FS types.FS
	// Classifier defaults to "file -bh"
	Classifier classifier.Classifier
	// Fuser defaults to lipo
	Fuser fuser.Fuser
	// Table defaults to actiontable.Default()
	Table actiontable.Table
	// Logger defaults to the "merge" component logger when nil
	Logger *zerolog.Logger
}

// merger holds the state of one run
type merger struct {
	opts     Options
	logger   zerolog.Logger
	walker   *walker.Walker
	resolver *resolver.Resolver
	executor *executor.Executor
	recorder *report.Recorder

	mu       sync.Mutex
	toolErrs *multierror.Error
}

// Run merges opts.InputRoots into opts.OutputRoot. The report is returned
// even when the run fails, describing what was done before the failure.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	if len(opts.InputRoots) < 2 {
		return nil, errors.Newf(errors.ErrUsage, "at least two input roots are required, got %d", len(opts.InputRoots)).
			WithDetail("inputs", opts.InputRoots)
	}
	if opts.OutputRoot == "" {
		return nil, errors.New(errors.ErrUsage, "an output root is required")
	}

	m := newMerger(opts)
	done := logging.Timed(m.logger, "merge")
	defer done()

	m.logger.Info().
		Str("output", m.opts.OutputRoot).
		Strs("inputs", m.opts.InputRoots).
		Int("jobs", m.opts.Jobs).
		Bool("dry_run", m.opts.DryRun).
		Msg("Starting merge")

	err := m.run(ctx)
	parallel := m.opts.Jobs > 1
	rep := m.recorder.Finish(parallel)

	if err != nil {
		m.logger.Error().Err(err).Msg("Merge aborted")
		return rep, err
	}

	if m.toolErrs != nil {
		err := errors.Wrapf(m.toolErrs.ErrorOrNil(), errors.ErrExternalTool,
			"%d files could not be fused", len(m.toolErrs.Errors))
		m.logger.Error().Err(err).Msg("Merge finished with tool failures")
		return rep, err
	}

	m.logger.Info().
		Int("files", len(rep.Files)).
		Int("missing", len(rep.Missing)).
		Msg("Merge completed")
	return rep, nil
}

func newMerger(opts Options) *merger {
	logger := logging.GetLogger("merge")
	execLogger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
		execLogger = *opts.Logger
	}
	runID := logging.NewRunID()
	logger = logging.WithRun(logger, runID)
	execLogger = logging.WithRun(execLogger, runID)

	opts.OutputRoot = paths.CleanRoot(opts.OutputRoot)
	roots := make([]string, len(opts.InputRoots))
	for i, r := range opts.InputRoots {
		roots[i] = paths.CleanRoot(r)
	}
	opts.InputRoots = roots

	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Classifier == nil || opts.Fuser == nil {
		r := runner.New(runner.Options{Logger: opts.Logger})
		if opts.Classifier == nil {
			opts.Classifier = classifier.NewFileCommand(r, classifier.DefaultCommand, classifier.DefaultArgs)
		}
		if opts.Fuser == nil {
			opts.Fuser = fuser.NewLipo(r, opts.FS, fuser.DefaultCommand)
		}
	}
	if opts.Table == nil {
		opts.Table = actiontable.Default()
	}

	return &merger{
		opts:     opts,
		logger:   logger,
		walker:   walker.New(opts.FS, walker.Options{Extensions: opts.Extensions}),
		resolver: resolver.New(opts.InputRoots, opts.FS, opts.Classifier, opts.Table),
		executor: executor.New(executor.Options{
			FS:     opts.FS,
			Fuser:  opts.Fuser,
			DryRun: opts.DryRun,
			Logger: &execLogger,
		}),
		recorder: report.NewRecorder(opts.OutputRoot, opts.InputRoots, opts.DryRun),
	}
}

func (m *merger) run(ctx context.Context) error {
	if !m.opts.DryRun {
		if err := m.opts.FS.MkdirAll(m.opts.OutputRoot, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create output root").
				WithDetail("path", m.opts.OutputRoot)
		}
	}

	if m.opts.Jobs > 1 {
		return m.runParallel(ctx)
	}
	return m.runSequential(ctx)
}

func (m *merger) runSequential(ctx context.Context) error {
	return m.walker.Walk(m.opts.InputRoots[0], func(e walker.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return m.process(ctx, e)
	})
}

// runParallel walks in the calling goroutine and hands every file to a
// bounded worker group. The first fatal error cancels the remaining work.
func (m *merger) runParallel(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Jobs)

	walkErr := m.walker.Walk(m.opts.InputRoots[0], func(e walker.Entry) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		g.Go(func() error {
			return m.process(gctx, e)
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return walkErr
}

// process resolves and executes one file
func (m *merger) process(ctx context.Context, e walker.Entry) error {
	res, err := m.resolver.Resolve(ctx, e.RelDir, e.Name)
	m.recorder.AddMissing(res.Missing...)
	for _, missing := range res.Missing {
		m.logger.Warn().
			Str("path", missing.RelPath).
			Str("root", missing.Root).
			Msg("File missing from input root")
	}
	if err != nil {
		return err
	}

	task := executor.Task{
		RelPath: res.RelPath,
		Name:    e.Name,
		DestDir: paths.Reroot(m.opts.OutputRoot, e.RelDir),
		Action:  res.Action,
		Files:   res.Files,
	}

	outcome, err := m.executor.Execute(ctx, task)
	if err != nil {
		if m.opts.ContinueOnToolError && !errors.IsFatal(err) {
			m.recordToolError(res.RelPath, err)
			return nil
		}
		return err
	}

	m.recorder.AddFile(report.FileResult{
		RelPath: res.RelPath,
		Action:  res.Action,
		Outcome: outcome,
		Inputs:  res.Files,
	})

	m.logger.Info().
		Str("path", res.RelPath).
		Str("action", res.Action.String()).
		Str("outcome", string(outcome)).
		Msg("Processed file")
	return nil
}

func (m *merger) recordToolError(relPath string, err error) {
	m.logger.Error().
		Err(err).
		Str("path", relPath).
		Msg("Fusion failed, continuing")

	m.recorder.AddFailure(relPath, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.toolErrs = multierror.Append(m.toolErrs, err)
}
