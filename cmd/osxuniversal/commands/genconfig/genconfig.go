package genconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marve/cerbero/cmd/osxuniversal/internal/cli"
	"github.com/marve/cerbero/pkg/config"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/paths"
	"github.com/spf13/cobra"
)

// NewCommand creates the genconfig command
func NewCommand() *cobra.Command {
	var write, current bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if current {
				cfg, err = cli.LoadConfig(cmd)
			} else {
				cfg, err = config.Default()
			}
			if err != nil {
				return err
			}

			content, err := config.Generate(cfg)
			if err != nil {
				return err
			}

			if !write {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}
			return writeConfig(cmd, paths.ConfigFile(), content)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&current, "current", false, MsgFlagCurrent)

	return cmd
}

func writeConfig(cmd *cobra.Command, path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrFileCreate, "%s already exists", path).
			WithDetail("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create config directory").
			WithDetail("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileCreate, "failed to write config file").
			WithDetail("path", path)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgWritten, path)
	return nil
}
