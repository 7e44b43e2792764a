package app

import (
	"context"
	"io/fs"
	"time"

	"shootcopy/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) (int64, error)
}

type TimestampReader interface {
	Timestamp(ctx context.Context, path string) (time.Time, error)
}

type Verifier interface {
	Sum(path string) (domain.Digest, error)
}

// Progress is a redrawing progress indicator. The copy engine only calls it
// from one goroutine at a time.
type Progress interface {
	Add(n int)
	Finish(message string)
}

// ProgressFactory starts a progress indicator for total units of work.
type ProgressFactory func(label string, total int) Progress

type noopProgress struct{}

func (noopProgress) Add(int)       {}
func (noopProgress) Finish(string) {}
