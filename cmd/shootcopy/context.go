package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"shootcopy/internal/app"
	"shootcopy/internal/config"
	appErrors "shootcopy/internal/errors"
	"shootcopy/internal/logging"
	"shootcopy/internal/presentation"
	"shootcopy/internal/tui"
)

// commandContext carries what every command needs after flags are parsed.
type commandContext struct {
	cfg     config.Config
	logger  logging.Logger
	printer presentation.Printer
	out     io.Writer
	in      io.Reader
}

func newCommandContext(cmd *cobra.Command, opts *options) (*commandContext, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewWithOptions(logging.Options{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose(),
		Format:    cfg.Logging.Format,
	})
	if err != nil {
		return nil, appErrors.Wrap(appErrors.InvalidConfig, "logging", "", err)
	}
	logger = logger.With("run", uuid.NewString())

	return &commandContext{
		cfg:     cfg,
		logger:  logger,
		printer: presentation.Printer{Writer: cmd.OutOrStdout(), Verbose: cfg.Verbose()},
		out:     cmd.OutOrStdout(),
		in:      cmd.InOrStdin(),
	}, nil
}

// loadConfig layers flags that were set explicitly over file and environment.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, appErrors.Wrap(appErrors.InvalidConfig, "config", opts.configPath, err)
	}

	flags := cmd.Flags()
	if flags.Changed("gap") {
		cfg.GapMinutes = opts.gap
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = opts.parallelism
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if opts.timestampSource != "" {
		cfg.TimestampSource = strings.ToLower(opts.timestampSource)
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	if opts.target != "" {
		cfg.TargetDir = opts.target
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}
	return cfg, nil
}

// progressFactory picks how copy progress is shown: nothing in verbose mode,
// a redrawing bar on a terminal, plain lines otherwise.
func (c *commandContext) progressFactory() app.ProgressFactory {
	if c.cfg.Verbose() || strings.EqualFold(c.cfg.Logging.Format, "json") {
		return nil
	}
	if f, ok := c.out.(*os.File); ok && isTerminal(f.Fd()) {
		return func(label string, total int) app.Progress {
			return tui.Start(f, label, total)
		}
	}
	return func(label string, total int) app.Progress {
		return presentation.StartLineProgress(c.out, label, total)
	}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// userError prints the friendly message while keeping the chain intact.
type userError struct {
	err error
}

func (e userError) Error() string { return appErrors.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }

func userFacing(err error) error {
	if err == nil {
		return nil
	}
	return userError{err: err}
}

func countLabel(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
