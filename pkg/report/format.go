package report

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output format for a report
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatXML  Format = "xml"
)

// Formats lists every supported format
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML, FormatXML}

// ParseFormat converts a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown report format %q", s).
		WithDetail("format", s)
}

// document is the serialized shape of a Report
type document struct {
	OutputRoot   string              `json:"output_root" yaml:"output_root" toml:"output_root"`
	InputRoots   []string            `json:"input_roots" yaml:"input_roots" toml:"input_roots"`
	DryRun       bool                `json:"dry_run" yaml:"dry_run" toml:"dry_run"`
	Duration     string              `json:"duration" yaml:"duration" toml:"duration"`
	Summary      map[string]int      `json:"summary" yaml:"summary" toml:"summary"`
	Files        []FileResult        `json:"files" yaml:"files" toml:"files"`
	Missing      []types.MissingFile `json:"missing" yaml:"missing" toml:"missing"`
	ToolFailures []ToolFailure       `json:"tool_failures" yaml:"tool_failures" toml:"tool_failures"`
}

func newDocument(r *Report) document {
	summary := make(map[string]int, len(types.Actions))
	for _, a := range types.Actions {
		summary[a.String()] = 0
	}
	for a, n := range r.Counts() {
		summary[a.String()] = n
	}

	return document{
		OutputRoot:   r.OutputRoot,
		InputRoots:   nonNil(r.InputRoots),
		DryRun:       r.DryRun,
		Duration:     r.Duration.String(),
		Summary:      summary,
		Files:        nonNil(r.Files),
		Missing:      nonNil(r.Missing),
		ToolFailures: nonNil(r.ToolFailures),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Write renders r to w in the given format
func Write(w io.Writer, r *Report, f Format) error {
	var err error
	switch f {
	case FormatText, "":
		_, err = io.WriteString(w, RenderText(r))
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(newDocument(r))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(newDocument(r)); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(newDocument(r))
	case FormatXML:
		err = writeXML(w, r)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown report format %q", f).
			WithDetail("format", string(f))
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to render %s report", f)
	}
	return nil
}

// WriteFile renders r into the file at path, replacing any previous content
func WriteFile(fs types.FS, path string, r *Report, f Format) (err error) {
	out, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create report file").
			WithDetail("path", path)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrFileCreate, "failed to write report file").
				WithDetail("path", path)
		}
	}()
	return Write(out, r, f)
}
