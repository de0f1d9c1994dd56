// Package walker enumerates the files of an input root.
//
// The walk is depth-first and top-down: the files of a directory are
// reported before any of its subdirectories are entered, in the order the
// filesystem lists them. Symbolic links are never followed; a link is
// reported as a file whatever it points at.
package walker

import (
	"path/filepath"
	"strings"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/paths"
	"github.com/marve/cerbero/pkg/types"
)

// Entry is one file found under the root
type Entry struct {
	// Root is the walked root with trailing separators removed
	Root string
	// Dir is the directory holding the file
	Dir string
	// RelDir is Dir relative to Root, "" for the root itself
	RelDir string
	// Name is the file name
	Name string
}

// Path returns the file's full path
func (e Entry) Path() string {
	return filepath.Join(e.Dir, e.Name)
}

// RelPath returns the file's path relative to Root
func (e Entry) RelPath() string {
	return paths.RelPath(e.RelDir, e.Name)
}

// Func is called for every file; a non-nil error stops the walk
type Func func(Entry) error

// Options configures a Walker
type Options struct {
	// Extensions restricts the walk to these file extensions ("a" and ".a"
	// are equivalent). Empty means every file.
	Extensions []string
}

// Walker walks one root through a types.FS
type Walker struct {
	fs         types.FS
	extensions map[string]struct{}
}

// New creates a new Walker
func New(fs types.FS, opts Options) *Walker {
	w := &Walker{fs: fs}
	if len(opts.Extensions) > 0 {
		w.extensions = make(map[string]struct{}, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			w.extensions[normalizeExt(ext)] = struct{}{}
		}
	}
	return w
}

// Walk calls fn for every file below root
func (w *Walker) Walk(root string, fn Func) error {
	root = paths.CleanRoot(root)
	info, err := w.fs.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read input root %s", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, "input root %s is not a directory", root).
			WithDetail("root", root)
	}
	return w.walkDir(root, root, fn)
}

func (w *Walker) walkDir(root, dir string, fn Func) error {
	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot list directory %s", dir).
			WithDetail("dir", dir)
	}

	relDir, err := paths.RelativeDir(root, dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
			continue
		}
		if !w.accepts(entry.Name()) {
			continue
		}
		if err := fn(Entry{Root: root, Dir: dir, RelDir: relDir, Name: entry.Name()}); err != nil {
			return err
		}
	}

	for _, name := range subdirs {
		if err := w.walkDir(root, filepath.Join(dir, name), fn); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) accepts(name string) bool {
	if w.extensions == nil {
		return true
	}
	_, ok := w.extensions[filepath.Ext(name)]
	return ok
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
