package svn

import (
	"github.com/marve/cerbero/cmd/osxuniversal/internal/cli"
	"github.com/marve/cerbero/pkg/filesystem"
	"github.com/marve/cerbero/pkg/svn"
	"github.com/spf13/cobra"
)

// NewCommand creates the svn command and its subcommands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "svn",
		Short:   MsgShort,
		Long:    MsgLong,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "checkout URL DEST",
		Short: MsgCheckoutShort,
		Long:  MsgCheckoutLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			return c.Checkout(cmd.Context(), args[0], args[1])
		},
	})

	var revision string
	update := &cobra.Command{
		Use:   "update REPO",
		Short: MsgUpdateShort,
		Long:  MsgUpdateLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			return c.Update(cmd.Context(), args[0], revision)
		},
	}
	update.Flags().StringVarP(&revision, "revision", "r", svn.HeadRevision, MsgFlagRevision)
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "export URL OUT",
		Short: MsgExportShort,
		Long:  MsgExportLong,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			return c.ExportFile(cmd.Context(), args[0], args[1])
		},
	})

	return cmd
}

func newClient(cmd *cobra.Command) (*svn.Client, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return svn.New(cli.NewRunner(cfg), filesystem.NewOS(), cfg.Tools.Svn), nil
}
