package main

import (
	"fmt"
	"os"

	"github.com/marve/cerbero/cmd/osxuniversal"
	"github.com/marve/cerbero/pkg/style"
)

func main() {
	rootCmd := osxuniversal.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
