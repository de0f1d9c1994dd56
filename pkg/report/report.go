package report

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/marve/cerbero/pkg/executor"
	"github.com/marve/cerbero/pkg/types"
	"github.com/samber/lo"
)

// FileResult is the record of one processed file
type FileResult struct {
	RelPath string           `json:"path" yaml:"path" toml:"path"`
	Action  types.Action     `json:"action" yaml:"action" toml:"action"`
	Outcome executor.Outcome `json:"outcome" yaml:"outcome" toml:"outcome"`
	Inputs  []string         `json:"inputs" yaml:"inputs" toml:"inputs"`
}

// ToolFailure is an external tool error collected while continuing past it
type ToolFailure struct {
	RelPath string `json:"path" yaml:"path" toml:"path"`
	Error   string `json:"error" yaml:"error" toml:"error"`
}

// Report is the outcome of a merge run
type Report struct {
	OutputRoot   string
	InputRoots   []string
	DryRun       bool
	Files        []FileResult
	Missing      []types.MissingFile
	ToolFailures []ToolFailure
	Duration     time.Duration
}

// Counts returns the number of processed files per action
func (r *Report) Counts() map[types.Action]int {
	return lo.CountValuesBy(r.Files, func(f FileResult) types.Action {
		return f.Action
	})
}

// MissingPaths returns the distinct relative paths absent from at least one root
func (r *Report) MissingPaths() []string {
	return lo.Uniq(lo.Map(r.Missing, func(m types.MissingFile, _ int) string {
		return m.RelPath
	}))
}

// OK reports whether the run finished without tool failures
func (r *Report) OK() bool {
	return len(r.ToolFailures) == 0
}

// Sort orders every list by relative path. Records for the same path keep
// their insertion order, so missing files stay in input-root order.
func (r *Report) Sort() {
	slices.SortStableFunc(r.Files, func(a, b FileResult) int {
		return cmp.Compare(a.RelPath, b.RelPath)
	})
	slices.SortStableFunc(r.Missing, func(a, b types.MissingFile) int {
		return cmp.Compare(a.RelPath, b.RelPath)
	})
	slices.SortStableFunc(r.ToolFailures, func(a, b ToolFailure) int {
		return cmp.Compare(a.RelPath, b.RelPath)
	})
}

// Recorder accumulates a Report while a run is in progress
type Recorder struct {
	mu     sync.Mutex
	report Report
	start  time.Time
}

// NewRecorder starts recording a run
func NewRecorder(outputRoot string, inputRoots []string, dryRun bool) *Recorder {
	return &Recorder{
		report: Report{
			OutputRoot: outputRoot,
			InputRoots: slices.Clone(inputRoots),
			DryRun:     dryRun,
		},
		start: time.Now(),
	}
}

// AddFile records a processed file
func (rec *Recorder) AddFile(f FileResult) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.report.Files = append(rec.report.Files, f)
}

// AddMissing records files absent from some input roots
func (rec *Recorder) AddMissing(missing ...types.MissingFile) {
	if len(missing) == 0 {
		return
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.report.Missing = append(rec.report.Missing, missing...)
}

// AddFailure records an external tool failure for relPath
func (rec *Recorder) AddFailure(relPath string, err error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.report.ToolFailures = append(rec.report.ToolFailures, ToolFailure{
		RelPath: relPath,
		Error:   err.Error(),
	})
}

// Finish stamps the duration and returns a copy of the report
func (rec *Recorder) Finish(sorted bool) *Report {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	r := rec.report
	r.Files = slices.Clone(r.Files)
	r.Missing = slices.Clone(r.Missing)
	r.ToolFailures = slices.Clone(r.ToolFailures)
	r.Duration = time.Since(rec.start)
	if sorted {
		r.Sort()
	}
	return &r
}
