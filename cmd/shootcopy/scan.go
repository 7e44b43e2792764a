package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"shootcopy/internal/app"
	"shootcopy/internal/config"
	"shootcopy/internal/domain"
	appErrors "shootcopy/internal/errors"
	"shootcopy/internal/infra/exif"
	osfs "shootcopy/internal/infra/fs"
)

// resolveSource picks the card to read: the argument, then the configured
// source, then the default LUMIX volume when it is mounted.
func (c *commandContext) resolveSource(args []string) (string, error) {
	source := c.cfg.SourceDir
	if len(args) > 0 {
		source = args[0]
	}
	if source == "" {
		mounted, err := osfs.OSFS{}.Exists(config.DefaultSourceDir)
		if err != nil {
			return "", appErrors.Wrap(appErrors.IOFailure, "stat", config.DefaultSourceDir, err)
		}
		if !mounted {
			return "", appErrors.Wrap(appErrors.NotFound, "source", config.DefaultSourceDir,
				errors.New("no source given and the default volume is not mounted"))
		}
		c.logger.Infof("No source specified. Using default: %s", config.DefaultSourceDir)
		source = config.DefaultSourceDir
	}

	expanded, err := config.ExpandPath(source)
	if err != nil {
		return "", appErrors.Wrap(appErrors.InvalidConfig, "source", source, err)
	}
	if _, err := (osfs.OSFS{}).Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", appErrors.Wrap(appErrors.NotFound, "stat", expanded, err)
		}
		return "", appErrors.Wrap(appErrors.IOFailure, "stat", expanded, err)
	}
	return expanded, nil
}

func (c *commandContext) timestampReader() app.TimestampReader {
	if c.cfg.TimestampSource == config.TimestampEXIF {
		return exif.Reader{Fallback: osfs.FileTimes{}}
	}
	return osfs.FileTimes{}
}

// detectShoots collects the media files below source and segments them.
// Files that could not be read or timestamped are logged as warnings and
// returned so the run can count them.
func (c *commandContext) detectShoots(ctx context.Context, source string) ([]domain.Photoshoot, []string, error) {
	cataloger := app.Cataloger{
		FS:         osfs.OSFS{},
		Times:      c.timestampReader(),
		Extensions: domain.NewExtensionSet(c.cfg.Extensions),
		SkipDirs:   c.cfg.SkipDirSet(),
		Workers:    c.cfg.Parallelism,
		Logger:     c.logger,
	}

	root := source
	if c.cfg.RequireDCIM {
		dcim, err := cataloger.FindDCIM(source)
		if err != nil {
			return nil, nil, err
		}
		c.logger.Infof("Found DCIM folder: %s", dcim)
		root = dcim
	}

	scan := &scanProgress{factory: c.progressFactory()}
	cataloger.OnProgress = scan.report
	files, warnings, err := cataloger.Collect(ctx, root)
	scan.finish()
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range warnings {
		c.logger.Warnf("%s", warning)
	}

	gap := c.cfg.GapThreshold()
	c.logger.Verbosef("Segmenting %d files with a %s gap", len(files), gap)
	return app.Segment(files, gap), warnings, nil
}

// scanProgress shows timestamp collection on a progress bar created on the
// first report. finish closes the bar even when collection stopped early.
type scanProgress struct {
	factory app.ProgressFactory
	bar     app.Progress
	current int
	total   int
}

func (s *scanProgress) report(current, total int) {
	if s.factory == nil {
		return
	}
	if s.bar == nil {
		s.bar = s.factory("Reading capture times", total)
	}
	s.bar.Add(current - s.current)
	s.current, s.total = current, total
}

func (s *scanProgress) finish() {
	if s.bar == nil {
		return
	}
	if s.current == s.total {
		s.bar.Finish(fmt.Sprintf("Read capture times of %d files", s.total))
	} else {
		s.bar.Finish(fmt.Sprintf("Stopped after %d of %d files", s.current, s.total))
	}
	s.bar = nil
}
