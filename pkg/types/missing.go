package types

import "path/filepath"

// MissingFile records a file present in the primary root but absent from
// another input root
type MissingFile struct {
	RelPath string `json:"path" yaml:"path" toml:"path"`
	Root    string `json:"root" yaml:"root" toml:"root"`
}

// Path returns the location where the file was expected
func (m MissingFile) Path() string {
	return filepath.Join(m.Root, m.RelPath)
}
