package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"shootcopy/internal/domain"
	"shootcopy/internal/infra/checksum"
	osfs "shootcopy/internal/infra/fs"
)

type fakeTimes struct {
	timestamps map[string]time.Time
}

func (f fakeTimes) Timestamp(ctx context.Context, path string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if ts, ok := f.timestamps[path]; ok {
		return ts, nil
	}
	return time.Time{}, errors.New("no timestamp")
}

// corruptingFS copies through the real filesystem, then flips the first byte
// of destinations whose name is listed.
type corruptingFS struct {
	osfs.OSFS
	corrupt map[string]bool
}

func (c corruptingFS) CopyFile(src, dst string) (int64, error) {
	n, err := c.OSFS.CopyFile(src, dst)
	if err != nil || !c.corrupt[filepath.Base(dst)] {
		return n, err
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		return n, err
	}
	data[0] ^= 0xff
	return n, os.WriteFile(dst, data, 0o644)
}

// failingCopyFS fails copies of the listed names.
type failingCopyFS struct {
	osfs.OSFS
	fail map[string]bool
}

func (f failingCopyFS) CopyFile(src, dst string) (int64, error) {
	if f.fail[filepath.Base(src)] {
		return 0, fs.ErrPermission
	}
	return f.OSFS.CopyFile(src, dst)
}

// failingMkdirFS refuses to create directories below a prefix.
type failingMkdirFS struct {
	osfs.OSFS
	prefix string
}

func (f failingMkdirFS) MkdirAll(path string, perm fs.FileMode) error {
	if len(path) >= len(f.prefix) && path[:len(f.prefix)] == f.prefix {
		return fs.ErrPermission
	}
	return f.OSFS.MkdirAll(path, perm)
}

// flakyVerifier fails digests of the listed paths.
type flakyVerifier struct {
	checksum.Hasher
	fail map[string]bool
}

func (v flakyVerifier) Sum(path string) (domain.Digest, error) {
	if v.fail[filepath.Base(path)] {
		return domain.Digest{}, errors.New("read error")
	}
	return v.Hasher.Sum(path)
}

type recordingProgress struct {
	mu       *sync.Mutex
	label    string
	total    int
	count    int
	finished string
}

type progressRecorder struct {
	mu   sync.Mutex
	bars []*recordingProgress
}

func (r *progressRecorder) factory(label string, total int) Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &recordingProgress{mu: &r.mu, label: label, total: total}
	r.bars = append(r.bars, p)
	return p
}

func (p *recordingProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count += n
}

func (p *recordingProgress) Finish(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = message
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
