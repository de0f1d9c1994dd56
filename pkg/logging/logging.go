// Package logging configures zerolog for osxuniversal.
//
// Console output goes to stderr and every record is also appended to the
// log file under the XDG state directory. Loggers carry a "component"
// field; merge runs add a "run" field so concurrent or successive runs can
// be told apart in the shared log file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levels maps the -v count to a level; counts past the end use the last one
var levels = []zerolog.Level{
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
	zerolog.TraceLevel,
}

var runSeq atomic.Uint64

// Level returns the level selected by verbosity
func Level(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		return levels[len(levels)-1]
	}
	return levels[verbosity]
}

// SetupLogger installs the global logger for the given verbosity
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(Level(verbosity))

	writers := []io.Writer{consoleWriter(os.Stderr)}

	logPath := paths.LogFile()
	file, fileErr := openLogFile(logPath)
	if fileErr == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logPath).Msg("Logging to console only")
		return
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", logPath).Msg("Logger ready")
}

func consoleWriter(f *os.File) zerolog.ConsoleWriter {
	_, noColor := os.LookupEnv("NO_COLOR")
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		noColor = true
	}
	return zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "cannot create log directory").
			WithDetail("path", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileCreate, "cannot open log file").
			WithDetail("path", path)
	}
	return f, nil
}

// GetLogger returns the global logger tagged with component
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// NewRunID returns an identifier unique within the process and unlikely to
// repeat across processes sharing a log file
func NewRunID() string {
	return strconv.FormatInt(time.Now().Unix(), 36) + "-" + strconv.FormatUint(runSeq.Add(1), 36)
}

// WithRun tags logger with a run identifier
func WithRun(logger zerolog.Logger, id string) zerolog.Logger {
	return logger.With().Str("run", id).Logger()
}

// LogCommand records an external tool invocation at debug level
func LogCommand(logger zerolog.Logger, cmd string, args []string) {
	logger.Debug().
		Str("command", cmd).
		Strs("args", args).
		Msg("Running tool")
}

// Timed logs operation at debug level and returns a func that logs its
// duration when called
func Timed(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Finished")
	}
}
