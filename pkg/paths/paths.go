package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/marve/cerbero/pkg/errors"
)

// AppName names the per-user XDG directories
const AppName = "osxuniversal"

// ConfigFileName is the user configuration file inside ConfigDir
const ConfigFileName = "config.toml"

// LogFileName is the log file inside StateDir
const LogFileName = "osxuniversal.log"

// CleanRoot removes trailing separators from an input or output root so
// relative paths computed against it never start with a separator.
func CleanRoot(root string) string {
	if root == "" {
		return root
	}
	return filepath.Clean(root)
}

// RelativeDir returns dir relative to root, or "" when dir is root itself.
// dir must be root or live below it.
func RelativeDir(root, dir string) (string, error) {
	rel, err := filepath.Rel(CleanRoot(root), filepath.Clean(dir))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "cannot relate %s to %s", dir, root)
	}
	if rel == "." {
		return "", nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is outside of %s", dir, root).
			WithDetail("root", root).
			WithDetail("dir", dir)
	}
	return rel, nil
}

// Reroot maps a directory relative to one root onto another root.
// It is a pure path transformation and touches no filesystem.
func Reroot(root, relDir string) string {
	if relDir == "" {
		return CleanRoot(root)
	}
	return filepath.Join(root, relDir)
}

// RelPath joins a relative directory and a file name.
func RelPath(relDir, name string) string {
	if relDir == "" {
		return name
	}
	return filepath.Join(relDir, name)
}

// ConfigDir returns the per-user configuration directory.
// XDG_CONFIG_HOME is read on every call since xdg resolves it once at init.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StateDir returns the per-user state directory holding the log file.
func StateDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, AppName)
	}
	return filepath.Join(xdg.StateHome, AppName)
}

// ConfigFile returns the default user configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// LogFile returns the log file path.
func LogFile() string {
	return filepath.Join(StateDir(), LogFileName)
}
