package classify

import (
	"fmt"

	"github.com/marve/cerbero/cmd/osxuniversal/internal/cli"
	"github.com/marve/cerbero/pkg/classifier"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/logging"
	"github.com/marve/cerbero/pkg/style"
	"github.com/spf13/cobra"
)

// NewCommand creates the classify command
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "classify FILE...",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE:    run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger("cmd.classify")

	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	c := classifier.NewFileCommand(cli.NewRunner(cfg), cfg.Tools.File, cfg.Tools.FileArgs)
	table := cfg.Table()
	out := cmd.OutOrStdout()

	failed, unrecognized := 0, 0
	for _, path := range args {
		tag, err := c.Classify(cmd.Context(), path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Classification failed")
			_, _ = fmt.Fprintf(out, "%s %s : %v\n", style.ErrorIndicator, style.PathStyle.Render(path), err)
			failed++
			continue
		}

		action, err := table.Resolve(tag)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%s %s : %s : %s\n", style.WarningIndicator,
				style.PathStyle.Render(path), tag, style.ErrorStyle.Render(MsgUnrecognized))
			failed++
			unrecognized++
			continue
		}

		_, _ = fmt.Fprintf(out, "%s %s : %s : %s\n", style.SuccessIndicator,
			style.PathStyle.Render(path), tag, style.ActionStyle(action).Render(action.String()))
	}

	if failed == 0 {
		return nil
	}
	code := errors.ErrExternalTool
	if unrecognized > 0 {
		code = errors.ErrUnrecognizedFileType
	}
	return errors.Newf(code, MsgErrFailed, failed, len(args)).
		WithDetail("failed", failed).
		WithDetail("unrecognized", unrecognized)
}
