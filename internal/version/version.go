package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/marve/cerbero/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/marve/cerbero/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/marve/cerbero/internal/version.Date={{.Date}}
)

// String returns the multi-line version banner for app
func String(app string) string {
	return fmt.Sprintf("%s version %s\n  commit: %s\n  built:  %s\n", app, Version, Commit, Date)
}
