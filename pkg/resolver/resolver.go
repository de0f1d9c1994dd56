// Package resolver decides the merge action for one logical file.
//
// For a relative path it finds the copy in every input root, classifies
// each copy, maps the descriptions through the action table and checks
// that all copies agree on the action. Copies that are to be fused must
// also match the same table rule: a Mach-O file and an ar archive both
// resolve to merge but cannot be combined.
package resolver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/marve/cerbero/pkg/actiontable"
	"github.com/marve/cerbero/pkg/classifier"
	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/paths"
	"github.com/marve/cerbero/pkg/types"
)

// Resolution is the agreed action for one file and the copies it applies to
type Resolution struct {
	RelPath string
	Action  types.Action
	// Files are the copies that exist, in input-root order, primary first
	Files []string
	// Tags are the type descriptions of Files, index aligned
	Tags []string
	// Missing lists the roots lacking this file
	Missing []types.MissingFile
}

// Resolver resolves actions against a fixed list of input roots
type Resolver struct {
	roots      []string
	fs         types.FS
	classifier classifier.Classifier
	table      actiontable.Table
}

// New creates a Resolver. roots[0] is the primary root.
func New(roots []string, fs types.FS, c classifier.Classifier, table actiontable.Table) *Resolver {
	cleaned := make([]string, len(roots))
	for i, r := range roots {
		cleaned[i] = paths.CleanRoot(r)
	}
	return &Resolver{
		roots:      cleaned,
		fs:         fs,
		classifier: c,
		table:      table,
	}
}

// Resolve determines the action for relDir/name
func (r *Resolver) Resolve(ctx context.Context, relDir, name string) (Resolution, error) {
	relPath := paths.RelPath(relDir, name)
	res := Resolution{RelPath: relPath}

	files, err := r.locate(relPath, &res)
	if err != nil {
		return res, err
	}
	res.Files = files

	rules := make([]actiontable.Rule, 0, len(files))
	for _, f := range files {
		tag, err := r.classifier.Classify(ctx, f)
		if err != nil {
			return res, err
		}
		res.Tags = append(res.Tags, tag)

		rule, ok := r.table.Match(tag)
		if !ok {
			return res, errors.Newf(errors.ErrUnrecognizedFileType, "unexpected file type %q for %s", tag, f).
				WithDetail("path", f).
				WithDetail("type", tag)
		}
		rules = append(rules, rule)
	}

	if len(rules) == 0 {
		return res, errors.Newf(errors.ErrFileAccess, "%s does not exist in any input root", relPath).
			WithDetail("path", relPath)
	}

	actions := make([]types.Action, len(rules))
	for i, rule := range rules {
		actions[i] = rule.Action
	}

	for _, rule := range rules[1:] {
		if !consistent(rules[0], rule) {
			return res, errors.Newf(errors.ErrInconsistentFileType,
				"different file types found for %s: %q in %v", relPath, res.Tags, files).
				WithDetail("path", relPath).
				WithDetail("files", files).
				WithDetail("types", res.Tags).
				WithDetail("actions", actions)
		}
	}

	res.Action = actions[0]
	return res, nil
}

// consistent reports whether two copies may be handled together
func consistent(a, b actiontable.Rule) bool {
	if a.Action != b.Action {
		return false
	}
	if a.Action == types.ActionMerge {
		return a.Match == b.Match
	}
	return true
}

// locate returns the existing copies of relPath and records the missing
// ones. Lstat is used so a dangling symlink still counts as present.
func (r *Resolver) locate(relPath string, res *Resolution) ([]string, error) {
	files := make([]string, 0, len(r.roots))
	for _, root := range r.roots {
		path := filepath.Join(root, relPath)
		if _, err := r.fs.Lstat(path); err != nil {
			if os.IsNotExist(err) {
				res.Missing = append(res.Missing, types.MissingFile{RelPath: relPath, Root: root})
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
				WithDetail("path", path)
		}
		files = append(files, path)
	}
	return files, nil
}
