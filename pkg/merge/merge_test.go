package merge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/executor"
	"github.com/marve/cerbero/pkg/merge"
	"github.com/marve/cerbero/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nop = zerolog.Nop()

// contentClassifier describes a file by its content, like file(1) would
// describe a real binary. Symlinks are described by their target.
type contentClassifier struct{}

func (contentClassifier) Classify(_ context.Context, path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrExternalTool, "cannot classify")
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return "", err
		}
		return "symbolic link to " + target, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrExternalTool, "cannot classify")
	}
	if len(data) == 0 {
		return "empty", nil
	}
	return strings.SplitN(string(data), "\n", 2)[0], nil
}

// catFuser writes the inputs, joined, to the output
type catFuser struct {
	mu    sync.Mutex
	calls map[string][]string
	fail  map[string]bool
}

func newCatFuser() *catFuser {
	return &catFuser{calls: map[string][]string{}, fail: map[string]bool{}}
}

func (f *catFuser) Fuse(_ context.Context, output string, inputs []string) error {
	f.mu.Lock()
	f.calls[output] = inputs
	fail := f.fail[filepath.Base(output)]
	f.mu.Unlock()

	if fail {
		return errors.Newf(errors.ErrExternalTool, "lipo failed for %s", output)
	}

	var parts []string
	for _, in := range inputs {
		data, err := os.ReadFile(in)
		if err != nil {
			return err
		}
		parts = append(parts, string(data))
	}
	return os.WriteFile(output, []byte(strings.Join(parts, "|")), 0755)
}

type fixture struct {
	armv7, arm64, out string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	return fixture{
		armv7: filepath.Join(base, "armv7"),
		arm64: filepath.Join(base, "arm64"),
		out:   filepath.Join(base, "universal"),
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// both writes the same relative file in both trees with per-tree content
func (fx fixture) both(t *testing.T, rel, armv7, arm64 string) {
	write(t, filepath.Join(fx.armv7, rel), armv7)
	write(t, filepath.Join(fx.arm64, rel), arm64)
}

func (fx fixture) options(f *catFuser) merge.Options {
	return merge.Options{
		OutputRoot: fx.out,
		InputRoots: []string{fx.armv7, fx.arm64},
		Classifier: contentClassifier{},
		Fuser:      f,
		Logger:     &nop,
	}
}

func (fx fixture) standardTree(t *testing.T) {
	fx.both(t, "lib/libfoo.a", "current ar archive\narmv7", "current ar archive\narm64")
	fx.both(t, "lib/libfoo.la", "libtool library file\n", "libtool library file\n")
	fx.both(t, "bin/tool", "Mach-O executable arm_v7\n", "Mach-O 64-bit executable arm64\n")
	fx.both(t, "share/doc.txt", "ASCII text\narmv7 docs", "ASCII text\narm64 docs")
}

func TestRun_UniversalTree(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	fuser := newCatFuser()

	rep, err := merge.Run(context.Background(), fx.options(fuser))
	require.NoError(t, err)

	// fused
	assert.Equal(t,
		[]string{filepath.Join(fx.armv7, "lib/libfoo.a"), filepath.Join(fx.arm64, "lib/libfoo.a")},
		fuser.calls[filepath.Join(fx.out, "lib/libfoo.a")])
	assert.FileExists(t, filepath.Join(fx.out, "lib/libfoo.a"))
	assert.FileExists(t, filepath.Join(fx.out, "bin/tool"))

	// skipped
	assert.NoFileExists(t, filepath.Join(fx.out, "lib/libfoo.la"))

	// copied from the primary root
	data, err := os.ReadFile(filepath.Join(fx.out, "share/doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ASCII text\narmv7 docs", string(data))

	assert.Empty(t, rep.Missing)
	assert.True(t, rep.OK())
	assert.Len(t, rep.Files, 4)
	assert.Equal(t, map[types.Action]int{
		types.ActionMerge: 2,
		types.ActionSkip:  1,
		types.ActionCopy:  1,
	}, rep.Counts())
}

func TestRun_MismatchIsFatal(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "lib/libfoo", "Mach-O dynamically linked shared library arm_v7", "current ar archive")

	rep, err := merge.Run(context.Background(), fx.options(newCatFuser()))

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInconsistentFileType))
	assert.Contains(t, err.Error(), filepath.Join("lib", "libfoo"))
	require.NotNil(t, rep)
	assert.Empty(t, rep.Files)
	assert.NoFileExists(t, filepath.Join(fx.out, "lib/libfoo"))
}

func TestRun_UnrecognizedIsFatal(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "weird", "Hewlett-Packard PCL", "Hewlett-Packard PCL")

	_, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnrecognizedFileType))
}

func TestRun_MissingRecordedOnce(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "share/doc.txt", "ASCII text", "ASCII text")
	write(t, filepath.Join(fx.armv7, "share/only-armv7.txt"), "ASCII text\nhere")

	rep, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	require.NoError(t, err)

	require.Len(t, rep.Missing, 1)
	assert.Equal(t, types.MissingFile{RelPath: filepath.Join("share", "only-armv7.txt"), Root: fx.arm64}, rep.Missing[0])
	assert.FileExists(t, filepath.Join(fx.out, "share/only-armv7.txt"))
}

func TestRun_FilesOnlyInSecondaryAreIgnored(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "a.txt", "ASCII text", "ASCII text")
	write(t, filepath.Join(fx.arm64, "extra.txt"), "ASCII text")

	rep, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	require.NoError(t, err)

	assert.Empty(t, rep.Missing)
	assert.NoFileExists(t, filepath.Join(fx.out, "extra.txt"))
}

func TestRun_Symlinks(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "lib/libfoo.1.dylib", "Mach-O dynamically linked shared library", "Mach-O dynamically linked shared library")
	for _, root := range []string{fx.armv7, fx.arm64} {
		require.NoError(t, os.Symlink("libfoo.1.dylib", filepath.Join(root, "lib/libfoo.dylib")))
	}

	rep, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	require.NoError(t, err)

	target, err := os.Readlink(filepath.Join(fx.out, "lib/libfoo.dylib"))
	require.NoError(t, err)
	assert.Equal(t, "libfoo.1.dylib", target)
	assert.Equal(t, 1, rep.Counts()[types.ActionLink])
}

func TestRun_Idempotent(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	for _, root := range []string{fx.armv7, fx.arm64} {
		require.NoError(t, os.Symlink("tool", filepath.Join(root, "bin/tool-link")))
	}

	_, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	require.NoError(t, err)

	// a link already in the output is left alone on the next run
	link := filepath.Join(fx.out, "bin/tool-link")
	require.NoError(t, os.Remove(link))
	require.NoError(t, os.Symlink("elsewhere", link))

	rep, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	require.NoError(t, err)

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", target)

	data, err := os.ReadFile(filepath.Join(fx.out, "share/doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ASCII text\narmv7 docs", string(data))

	for _, f := range rep.Files {
		if f.Action == types.ActionLink {
			assert.Equal(t, executor.OutcomeExists, f.Outcome)
		}
	}
}

func TestRun_ExtensionFilter(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	opts := fx.options(newCatFuser())
	opts.Extensions = []string{"a"}

	rep, err := merge.Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, rep.Files, 1)
	assert.Equal(t, filepath.Join("lib", "libfoo.a"), rep.Files[0].RelPath)
	assert.NoFileExists(t, filepath.Join(fx.out, "share/doc.txt"))
}

func TestRun_Parallel(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 40; i++ {
		rel := filepath.Join(fmt.Sprintf("dir%d", i%5), fmt.Sprintf("file%02d.txt", i))
		fx.both(t, rel, "ASCII text\n"+rel, "ASCII text\n"+rel)
	}
	fx.both(t, "lib/libfoo.a", "current ar archive", "current ar archive")
	write(t, filepath.Join(fx.armv7, "dir0/lonely.txt"), "ASCII text")

	opts := fx.options(newCatFuser())
	opts.Jobs = 8

	rep, err := merge.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Len(t, rep.Files, 42)
	require.Len(t, rep.Missing, 1)
	assert.Equal(t, filepath.Join("dir0", "lonely.txt"), rep.Missing[0].RelPath)
	for i := 1; i < len(rep.Files); i++ {
		assert.LessOrEqual(t, rep.Files[i-1].RelPath, rep.Files[i].RelPath)
	}
	assert.FileExists(t, filepath.Join(fx.out, "dir4/file39.txt"))
}

func TestRun_ParallelFatalError(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 20; i++ {
		fx.both(t, fmt.Sprintf("file%02d.txt", i), "ASCII text", "ASCII text")
	}
	fx.both(t, "bin/tool", "Mach-O executable", "POSIX shell script, ASCII text executable")

	opts := fx.options(newCatFuser())
	opts.Jobs = 4

	rep, err := merge.Run(context.Background(), opts)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInconsistentFileType))
	assert.NotNil(t, rep)
}

func TestRun_ToolFailureAborts(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	fuser := newCatFuser()
	fuser.fail["libfoo.a"] = true

	_, err := merge.Run(context.Background(), fx.options(fuser))
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
}

func TestRun_KeepGoing(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	fuser := newCatFuser()
	fuser.fail["libfoo.a"] = true
	opts := fx.options(fuser)
	opts.ContinueOnToolError = true

	rep, err := merge.Run(context.Background(), opts)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalTool))
	require.Len(t, rep.ToolFailures, 1)
	assert.Equal(t, filepath.Join("lib", "libfoo.a"), rep.ToolFailures[0].RelPath)
	assert.Len(t, rep.Files, 3)
	assert.FileExists(t, filepath.Join(fx.out, "share/doc.txt"))
	assert.FileExists(t, filepath.Join(fx.out, "bin/tool"))
}

func TestRun_KeepGoingStillStopsOnFatal(t *testing.T) {
	fx := newFixture(t)
	fx.both(t, "bin/tool", "Mach-O executable", "ASCII text")
	opts := fx.options(newCatFuser())
	opts.ContinueOnToolError = true

	_, err := merge.Run(context.Background(), opts)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInconsistentFileType))
}

func TestRun_DryRun(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	fuser := newCatFuser()
	opts := fx.options(fuser)
	opts.DryRun = true

	rep, err := merge.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, rep.DryRun)
	assert.Len(t, rep.Files, 4)
	for _, f := range rep.Files {
		assert.Equal(t, executor.OutcomePlanned, f.Outcome)
	}
	assert.Empty(t, fuser.calls)
	assert.NoDirExists(t, fx.out)
}

func TestRun_UsageErrors(t *testing.T) {
	fx := newFixture(t)

	opts := fx.options(newCatFuser())
	opts.InputRoots = []string{fx.armv7}
	rep, err := merge.Run(context.Background(), opts)
	assert.Nil(t, rep)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
	assert.NoDirExists(t, fx.out)

	opts = fx.options(newCatFuser())
	opts.OutputRoot = ""
	_, err = merge.Run(context.Background(), opts)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUsage))
}

func TestRun_MissingPrimaryRoot(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.MkdirAll(fx.arm64, 0755))

	_, err := merge.Run(context.Background(), fx.options(newCatFuser()))
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess))
}

func TestRun_Canceled(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := merge.Run(ctx, fx.options(newCatFuser()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rep.Files)
}

// runIDs returns the distinct "run" values of the JSON log lines in buf
func runIDs(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	seen := map[string]bool{}
	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		id, ok := rec["run"].(string)
		require.True(t, ok, "log line without run: %s", line)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func TestRun_LogsCarryRunID(t *testing.T) {
	fx := newFixture(t)
	fx.standardTree(t)

	var first, second bytes.Buffer
	for _, buf := range []*bytes.Buffer{&first, &second} {
		logger := zerolog.New(buf).Level(zerolog.InfoLevel)
		opts := fx.options(newCatFuser())
		opts.Logger = &logger
		_, err := merge.Run(context.Background(), opts)
		require.NoError(t, err)
	}

	firstIDs := runIDs(t, &first)
	secondIDs := runIDs(t, &second)
	require.Len(t, firstIDs, 1)
	require.Len(t, secondIDs, 1)
	assert.NotEqual(t, firstIDs[0], secondIDs[0])
	assert.Contains(t, first.String(), `"path":"lib/libfoo.a"`)
}
