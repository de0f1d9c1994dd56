package merge

import (
	"github.com/marve/cerbero/cmd/osxuniversal/internal/cli"
	"github.com/marve/cerbero/pkg/classifier"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/filesystem"
	"github.com/marve/cerbero/pkg/fuser"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/merge"
	"github.com/marve/cerbero/pkg/report"
	"github.com/spf13/cobra"
)

type options struct {
	extensions []string
	jobs       int
	keepGoing  bool
	format     string
	reportFile string
	dryRun     bool
}

// NewCommand creates the merge command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "merge OUTPUT INPUT INPUT [INPUT...]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return errors.Newf(errors.ErrUsage, MsgErrArgs, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.extensions, "ext", nil, MsgFlagExt)
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 1, MsgFlagJobs)
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, MsgFlagKeepGoing)
	cmd.Flags().StringVar(&opts.format, "format", "", MsgFlagFormat)
	cmd.Flags().StringVar(&opts.reportFile, "report", "", MsgFlagReport)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(report.Formats))
		for _, f := range report.Formats {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	logger := logging.GetLogger("cmd.merge")

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}

	// flags override the configuration
	if cmd.Flags().Changed("ext") {
		cfg.Merge.Extensions = opts.extensions
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Merge.Jobs = opts.jobs
	}
	if cmd.Flags().Changed("keep-going") {
		cfg.Merge.ContinueOnToolError = opts.keepGoing
	}
	if cmd.Flags().Changed("format") {
		cfg.Report.Format = opts.format
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrUsage, "invalid merge options")
	}
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	logger.Info().
		Str("output", args[0]).
		Strs("inputs", args[1:]).
		Msg("Starting merge command")

	fs := filesystem.NewOS()
	r := cli.NewRunner(cfg)

	rep, runErr := merge.Run(cmd.Context(), merge.Options{
		OutputRoot:          args[0],
		InputRoots:          args[1:],
		Extensions:          cfg.Merge.Extensions,
		Jobs:                cfg.Merge.Jobs,
		ContinueOnToolError: cfg.Merge.ContinueOnToolError,
		DryRun:              opts.dryRun,
		FS:                  fs,
		Classifier:          classifier.NewFileCommand(r, cfg.Tools.File, cfg.Tools.FileArgs),
		Fuser:               fuser.NewLipo(r, fs, cfg.Tools.Lipo),
		Table:               cfg.Table(),
	})

	if rep != nil {
		var writeErr error
		if opts.reportFile != "" {
			writeErr = report.WriteFile(fs, opts.reportFile, rep, format)
		} else {
			writeErr = report.Write(cmd.OutOrStdout(), rep, format)
		}
		if writeErr != nil && runErr == nil {
			return writeErr
		}
	}

	return runErr
}
