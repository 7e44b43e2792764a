package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCopyFileCopiesBytesAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "P1000001.RW2")
	dst := filepath.Join(dir, "out", "P1000001.RW2")
	content := bytes.Repeat([]byte{0x49, 0x49, 0x55, 0x00}, 4096)
	if err := os.WriteFile(src, content, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := (OSFS{}).MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := OSFS{}.CopyFile(src, dst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(content)) {
		t.Fatalf("expected %d bytes, got %d", len(content), n)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("copied content differs")
	}
}

func TestCopyFileRequiresDestinationDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(src, []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := (OSFS{}).CopyFile(src, filepath.Join(dir, "missing", "a.jpg")); err == nil {
		t.Fatalf("expected error when destination directory is missing")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := OSFS{}.Exists(dir)
	if err != nil || !ok {
		t.Fatalf("expected dir to exist: %v %v", ok, err)
	}
	ok, err = OSFS{}.Exists(filepath.Join(dir, "nope"))
	if err != nil || ok {
		t.Fatalf("expected missing path: %v %v", ok, err)
	}
}

func TestFileTimesFallsBackToModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mov")
	if err := os.WriteFile(path, []byte("mov"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := time.Now().Add(-time.Minute)

	ts, err := FileTimes{}.Timestamp(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Minute)) {
		t.Fatalf("timestamp %v outside expected window", ts)
	}
}

func TestFileTimesMissingFile(t *testing.T) {
	if _, err := (FileTimes{}).Timestamp(context.Background(), filepath.Join(t.TempDir(), "gone.jpg")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileTimesHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileTimes{}).Timestamp(ctx, "/irrelevant"); err == nil {
		t.Fatalf("expected context error")
	}
}
