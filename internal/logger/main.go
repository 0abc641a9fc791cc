// Package logger sets up the global zerolog logger of the frontend.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter splits log output by level. See WriteLevel.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel writes p to the writer configured for level l.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	if l == zerolog.Disabled {
		return 0, nil
	}

	switch {
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel: // error, fatal and panic
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter // debug and info
	}

	return w.Write(p) //nolint:wrapcheck
}

// Write sends level-less output to the info writer.
func (lw *LevelWriter) Write(p []byte) (n int, err error) {
	return lw.InfoWriter.Write(p) //nolint:wrapcheck
}

// Init configures the global zerolog logger.
// Without console or file output enabled nothing is logged.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	var (
		writers []io.Writer
		stack   bool
	)

	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		stack = true
	}

	zerolog.SetGlobalLevel(logLevel)
	zerolog.ErrorHandler = dropped //nolint:reassign

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if w := newRollingLevelFiles(cfg); w != nil {
			writers = append(writers, w)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(newLevelCounter(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack().Caller()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	case stack:
		ctx = ctx.Stack()
	}

	log.Logger = ctx.Logger()

	return nil
}

// newRollingLevelFiles writes one rotating file per level group.
func newRollingLevelFiles(cfg Log) io.Writer {
	if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil { //nolint:mnd
		log.Error().Err(err).Str("path", cfg.File.Path).Msg("can't create log directory")

		return nil
	}

	f := cfg.File

	return &LevelWriter{
		ErrorWriter: rollingFile(f.Path, f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		InfoWriter:  rollingFile(f.Path, f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		TraceWriter: rollingFile(f.Path, f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
		WarnWriter:  rollingFile(f.Path, f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
	}
}

func rollingFile(dir, name string, maxSize, maxAge, maxBackups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}
}

// NewConsoleWriter sends info and debug to stdout and everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	lw := LevelWriter{
		ErrorWriter: os.Stderr,
		InfoWriter:  os.Stdout,
		TraceWriter: os.Stderr,
		WarnWriter:  os.Stderr,
	}

	if cfg.Console.UseConsoleWriter {
		lw.ErrorWriter = consoleWriter(os.Stderr)
		lw.InfoWriter = consoleWriter(os.Stdout)
		lw.TraceWriter = consoleWriter(os.Stderr)
		lw.WarnWriter = consoleWriter(os.Stderr)
	}

	return &lw
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: zerolog.TimeFieldFormat,
	}
}
