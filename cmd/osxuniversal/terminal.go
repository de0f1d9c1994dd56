package osxuniversal

import (
	"os"

	"github.com/marve/cerbero/pkg/style"
	"github.com/spf13/cobra"
)

// configureStyle turns colors off unless the command writes to a color terminal
func configureStyle(cmd *cobra.Command) {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		style.Configure(f)
		return
	}
	style.DisableColor()
}
