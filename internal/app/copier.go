package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"shootcopy/internal/domain"
	appErrors "shootcopy/internal/errors"
	"shootcopy/internal/logging"
)

const dirPerm = 0o755

// CopyEngine copies a photoshoot into a destination tree and verifies every
// copied file against its source.
type CopyEngine struct {
	FS       FileSystem
	Verifier Verifier
	Logger   logging.Logger
	Progress ProgressFactory
	// Units is the number of parallel execution units. Zero means
	// runtime.NumCPU().
	Units int
}

// CopyShoot copies shoot into <destinationRoot>/<folder>/<ext>/. index is the
// shoot's 1-based position in the listing. Failing to create the shoot's
// directories aborts the shoot; failures of single files are logged and
// tallied in the result. Cancelling ctx stops dispatching further files.
func (e *CopyEngine) CopyShoot(ctx context.Context, shoot domain.Photoshoot, destinationRoot string, index int, verbose bool) (domain.ShootResult, error) {
	if e.FS == nil || e.Verifier == nil {
		return domain.ShootResult{}, errors.New("copy engine requires FS and Verifier")
	}
	if shoot.Len() == 0 {
		return domain.ShootResult{Index: index}, nil
	}

	started := time.Now()
	folder := filepath.Join(destinationRoot, shoot.FolderName(index))
	if err := e.FS.MkdirAll(folder, dirPerm); err != nil {
		return domain.ShootResult{}, appErrors.Wrap(appErrors.IOFailure, "mkdir", folder, err)
	}
	// every subfolder exists before the first copy so workers never race on it
	for _, ext := range shoot.Extensions() {
		if ext == "" {
			continue
		}
		sub := filepath.Join(folder, ext)
		if err := e.FS.MkdirAll(sub, dirPerm); err != nil {
			return domain.ShootResult{}, appErrors.Wrap(appErrors.IOFailure, "mkdir", sub, err)
		}
	}

	units := e.Units
	if units <= 0 {
		units = runtime.NumCPU()
	}
	strategy := selectStrategy(units)
	e.Logger.Verbosef("Copying shoot %d with %s strategy (%d units)", index, strategy.name(), units)

	result := domain.ShootResult{
		Index:    index,
		Folder:   folder,
		Strategy: strategy.name(),
		Files:    shoot.Len(),
	}
	job := shootJob{items: e.planDestinations(folder, shoot.Files), verbose: verbose}
	strategy.run(ctx, e, job, &result)
	result.Elapsed = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// DestinationPath is where file lands inside a shoot folder: a subfolder
// named after its lower-cased extension, or the folder itself when the file
// has no extension.
func DestinationPath(folder string, file domain.FileEntry) string {
	ext := file.Ext()
	if ext == "" {
		return filepath.Join(folder, file.Name())
	}
	return filepath.Join(folder, ext, file.Name())
}

type copyItem struct {
	file domain.FileEntry
	dest string
}

// planDestinations assigns every file its destination before anything is
// copied. Cameras restart numbering across DCIM subfolders, so two files of
// a shoot can share a name; later ones get a _2, _3, ... suffix. Names are
// compared case-insensitively, and a suffixed name never takes the plain
// name of another file in the shoot.
func (e *CopyEngine) planDestinations(folder string, files []domain.FileEntry) []copyItem {
	reserved := make(map[string]bool, len(files))
	for _, f := range files {
		reserved[strings.ToLower(DestinationPath(folder, f))] = true
	}

	used := make(map[string]bool, len(files))
	items := make([]copyItem, 0, len(files))
	for _, f := range files {
		dest := DestinationPath(folder, f)
		if used[strings.ToLower(dest)] {
			dest = uniqueDestination(dest, used, reserved)
			e.Logger.Warnf("Duplicate file name %s, copying as %s", f.Path, filepath.Base(dest))
		}
		used[strings.ToLower(dest)] = true
		items = append(items, copyItem{file: f, dest: dest})
	}
	return items
}

func uniqueDestination(dest string, used, reserved map[string]bool) string {
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(dest, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		key := strings.ToLower(candidate)
		if !used[key] && !reserved[key] {
			return candidate
		}
	}
}

type fileOutcome struct {
	bytes         int64
	copyFailed    bool
	checksumError bool
	mismatch      bool
}

func (r fileOutcome) apply(result *domain.ShootResult) {
	result.Processed++
	result.Bytes += r.bytes
	switch {
	case r.copyFailed:
		result.CopyFailures++
	case r.checksumError:
		result.ChecksumErrors++
	case r.mismatch:
		result.Mismatches++
	default:
		result.Verified++
	}
}

// copyOne copies and verifies a single file. It never returns an error;
// problems are logged and reported in the outcome.
func (e *CopyEngine) copyOne(item copyItem, verbose bool) fileOutcome {
	file, dest := item.file, item.dest

	written, err := e.FS.CopyFile(file.Path, dest)
	if err != nil {
		e.Logger.Errorf("Failed to copy %s -> %s: %v", file.Path, dest, err)
		return fileOutcome{bytes: written, copyFailed: true}
	}
	out := fileOutcome{bytes: written}

	srcSum, srcErr := e.Verifier.Sum(file.Path)
	dstSum, dstErr := e.Verifier.Sum(dest)
	switch {
	case srcErr != nil:
		e.Logger.Errorf("Checksum error for %s: %v", file.Path, srcErr)
		out.checksumError = true
	case dstErr != nil:
		e.Logger.Errorf("Checksum error for %s: %v", dest, dstErr)
		out.checksumError = true
	case srcSum != dstSum:
		e.Logger.Warnf("Integrity check failed for %s", file.Path)
		out.mismatch = true
	case verbose:
		e.Logger.Infof("Verified %s (%s)", file.Path, srcSum)
	}

	if verbose {
		e.Logger.Infof("Copied %s -> %s", file.Path, dest)
	}
	return out
}

func (e *CopyEngine) newProgress(label string, total int, verbose bool) Progress {
	// verbose lines and a redrawing bar cannot share one terminal
	if verbose || e.Progress == nil {
		return noopProgress{}
	}
	return e.Progress(label, total)
}
