package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"shootcopy/internal/app"
	"shootcopy/internal/config"
	"shootcopy/internal/domain"
	appErrors "shootcopy/internal/errors"
	"shootcopy/internal/infra/checksum"
	osfs "shootcopy/internal/infra/fs"
	"shootcopy/internal/infra/lock"
)

func runList(cmd *cobra.Command, opts *options, args []string) error {
	c, err := newCommandContext(cmd, opts)
	if err != nil {
		return err
	}
	source, err := c.resolveSource(args)
	if err != nil {
		return err
	}
	shoots, _, err := c.detectShoots(cmd.Context(), source)
	if err != nil {
		return err
	}

	switch strings.ToLower(opts.listFormat) {
	case "", "table":
		c.printer.PrintShoots(shoots)
		return nil
	case "yaml":
		return c.printer.PrintShootsYAML(shoots)
	default:
		return appErrors.Wrap(appErrors.InvalidConfig, "list", "", fmt.Errorf("unsupported format %q", opts.listFormat))
	}
}

func runBackup(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	c, err := newCommandContext(cmd, opts)
	if err != nil {
		return err
	}
	source, err := c.resolveSource(args)
	if err != nil {
		return err
	}
	shoots, warnings, err := c.detectShoots(ctx, source)
	if err != nil {
		return err
	}

	c.printer.PrintShoots(shoots)
	if len(shoots) == 0 || opts.dryRun {
		return nil
	}

	prompt := bufio.NewReader(c.in)

	answer := opts.selection
	if answer == "" {
		answer, err = readLine(prompt, c.out, "Select shoots to backup (space-separated indexes, or 'all'): ")
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
	}
	selected := app.ParseSelection(answer, len(shoots))
	if len(selected) == 0 {
		c.logger.Infof("No shoots selected.")
		return nil
	}

	target := c.cfg.TargetDir
	if target == "" {
		target, err = readLine(prompt, c.out, fmt.Sprintf("Enter path to your SSD (or output folder) (leave empty for default '%s'): ", config.DefaultTargetDir))
		if err != nil {
			return appErrors.Wrap(appErrors.Internal, "prompt", "", err)
		}
		if target == "" {
			target = config.DefaultTargetDir
		}
	}
	target, err = config.ExpandPath(target)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "target", target, err)
	}

	return c.backup(ctx, shoots, selected, target, len(warnings))
}

func (c *commandContext) backup(ctx context.Context, shoots []domain.Photoshoot, selected []int, target string, skipped int) error {
	destLock, err := lock.Acquire(target)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "lock", target, err)
	}
	defer destLock.Release()
	c.logger.Verbosef("Holding destination lock %s", destLock.Path())

	filesystem := osfs.OSFS{}
	if err := filesystem.MkdirAll(target, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", target, err)
	}

	executor := app.Executor{
		Engine: &app.CopyEngine{
			FS:       filesystem,
			Verifier: checksum.Hasher{BufferSize: c.cfg.HashBufferSize},
			Logger:   c.logger,
			Progress: c.progressFactory(),
			Units:    c.cfg.Parallelism,
		},
		Logger:  c.logger,
		Verbose: c.cfg.Verbose(),
	}

	stop := c.logger.Measure("Backup")
	summary, err := executor.Execute(ctx, shoots, selected, target)
	stop()
	summary.Skipped = skipped
	c.printer.PrintSummary(summary)
	if err != nil {
		return appErrors.Wrap(appErrors.Incomplete, "backup", target, fmt.Errorf("interrupted: %w", err))
	}

	if failures := summary.Failures(); failures > 0 {
		return appErrors.Wrap(appErrors.Incomplete, "backup", target, errors.New(countLabel(failures, "failure")))
	}
	return nil
}

// readLine prints prompt and returns the trimmed answer. End of input counts
// as an empty answer.
func readLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
