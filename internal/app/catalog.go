package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"

	"shootcopy/internal/domain"
	appErrors "shootcopy/internal/errors"
	"shootcopy/internal/logging"
)

// ProgressFunc is called during scanning to report progress
type ProgressFunc func(current, total int)

var errStopWalk = errors.New("stop walk")

// Cataloger collects the media files of a camera card.
type Cataloger struct {
	FS         FileSystem
	Times      TimestampReader
	Extensions domain.ExtensionSet
	SkipDirs   map[string]bool
	Workers    int
	Logger     logging.Logger
	OnProgress ProgressFunc
}

// FindDCIM returns root when it is itself a DCIM folder, otherwise the first
// DCIM folder (case-insensitive) one or two levels below it.
func (c *Cataloger) FindDCIM(root string) (string, error) {
	if c.FS == nil {
		return "", errors.New("cataloger requires FS")
	}
	if strings.EqualFold(filepath.Base(filepath.Clean(root)), "DCIM") {
		return root, nil
	}

	var found string
	err := c.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if c.SkipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if strings.EqualFold(d.Name(), "DCIM") {
			found = path
			return errStopWalk
		}
		if depth(root, path) >= 2 {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", appErrors.Wrap(appErrors.IOFailure, "walk", root, err)
	}
	if found == "" {
		return "", appErrors.Wrap(appErrors.NotFound, "find dcim", root, fmt.Errorf("DCIM folder not found in %s", root))
	}
	return found, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

// Collect walks root and timestamps every file with a wanted extension. The
// result keeps walk order, so files with equal timestamps segment the same
// way on every run. Files that cannot be timestamped are skipped with a
// warning.
func (c *Cataloger) Collect(ctx context.Context, root string) ([]domain.FileEntry, []string, error) {
	if c.FS == nil || c.Times == nil {
		return nil, nil, errors.New("cataloger requires FS and Times")
	}

	stop := c.Logger.Measure("Collecting media files")
	defer stop()

	var warnings []string
	var paths []string
	err := c.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			warnings = append(warnings, fmt.Sprintf("cannot read %s: %v", path, walkErr))
			return nil
		}
		if d.IsDir() {
			if path != root && c.SkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if c.Extensions.Contains(filepath.Ext(d.Name())) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(appErrors.IOFailure, "walk", root, err)
	}
	c.Logger.Verbosef("Found %d media files in %s", len(paths), root)

	workerCount := c.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	c.Logger.Verbosef("Using %d timestamp workers", workerCount)

	type result struct {
		index   int
		entry   domain.FileEntry
		warning string
		err     error
	}

	jobs := make(chan int)
	results := make(chan result, len(paths))

	for i := 0; i < workerCount; i++ {
		go func() {
			for index := range jobs {
				path := paths[index]
				ts, tsErr := c.Times.Timestamp(ctx, path)
				if tsErr != nil {
					if errors.Is(tsErr, context.Canceled) || errors.Is(tsErr, context.DeadlineExceeded) {
						results <- result{index: index, err: tsErr}
						continue
					}
					results <- result{index: index, warning: fmt.Sprintf("no timestamp for %s, skipping: %v", filepath.Base(path), tsErr)}
					continue
				}
				results <- result{index: index, entry: domain.NewFileEntry(path, ts)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	ordered := make([]*domain.FileEntry, len(paths))
	total := len(paths)
	for i := 0; i < total; i++ {
		var res result
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case res = <-results:
		}
		if res.err != nil {
			return nil, nil, res.err
		}
		if res.warning != "" {
			warnings = append(warnings, res.warning)
		} else {
			e := res.entry
			ordered[res.index] = &e
		}
		if c.OnProgress != nil {
			c.OnProgress(i+1, total)
		}
	}

	entries := make([]domain.FileEntry, 0, len(paths))
	for _, e := range ordered {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	c.Logger.Verbosef("Collected %d files (%d warnings)", len(entries), len(warnings))
	return entries, warnings, nil
}
