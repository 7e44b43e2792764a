package exif

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fixedTimes struct {
	ts    time.Time
	calls int
}

func (f *fixedTimes) Timestamp(ctx context.Context, path string) (time.Time, error) {
	f.calls++
	return f.ts, nil
}

func TestTimestampFallsBackWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "P1000001.MOV")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 10, 2, 10, 0, 0, 0, time.Local)
	fallback := &fixedTimes{ts: want}

	got, err := Reader{Fallback: fallback}.Timestamp(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) || fallback.calls != 1 {
		t.Fatalf("expected fallback time, got %v (calls=%d)", got, fallback.calls)
	}
}

func TestTimestampWithoutFallbackReturnsExifError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "P1000001.JPG")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Reader{}).Timestamp(context.Background(), path); err == nil {
		t.Fatalf("expected error without fallback")
	}
}

func TestTimestampDoesNotFallBackWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fallback := &fixedTimes{}

	_, err := Reader{Fallback: fallback}.Timestamp(ctx, "/dcim/a.jpg")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not run after cancellation")
	}
}
