package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	Format    string
}

// Logger provides optional verbose logging and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	Verbose bool
	logger  *slog.Logger
}

// New returns a console logger writing every level to writer.
func New(writer io.Writer, verbose bool) Logger {
	return Logger{
		Verbose: verbose,
		logger:  slog.New(newConsoleHandler(writer, writer, levelFor(verbose))),
	}
}

// NewWithOptions builds a console or JSON logger. Console warnings and errors
// go to ErrWriter when it is set.
func NewWithOptions(opts Options) (Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = io.Discard
	}
	errWriter := opts.ErrWriter
	if errWriter == nil {
		errWriter = writer
	}
	level := levelFor(opts.Verbose)

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handler = newConsoleHandler(writer, errWriter, level)
	case "json":
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceJSONAttr,
		})
	default:
		return Logger{}, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return Logger{Verbose: opts.Verbose, logger: slog.New(handler)}, nil
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func replaceJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	}
	return attr
}

// With returns a logger that attaches the given attributes to every record.
func (l Logger) With(args ...any) Logger {
	if l.logger == nil {
		return l
	}
	return Logger{Verbose: l.Verbose, logger: l.logger.With(args...)}
}

func (l Logger) Infof(format string, args ...any) {
	l.log(slog.LevelInfo, format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose {
		return
	}
	l.log(slog.LevelDebug, format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	l.log(slog.LevelWarn, format, args...)
}

func (l Logger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}

func (l Logger) log(level slog.Level, format string, args ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}
