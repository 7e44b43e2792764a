package exif

import (
	"context"
	"errors"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// TimestampReader is the fallback consulted when a file carries no usable
// EXIF capture time.
type TimestampReader interface {
	Timestamp(ctx context.Context, path string) (time.Time, error)
}

// Reader prefers the EXIF capture time and defers to Fallback otherwise.
// Capture times are interpreted in the local zone, as cameras record them.
type Reader struct {
	Fallback TimestampReader
}

func (r Reader) Timestamp(ctx context.Context, path string) (time.Time, error) {
	taken, err := r.DateTimeOriginal(ctx, path)
	if err == nil {
		return taken, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || r.Fallback == nil {
		return time.Time{}, err
	}
	return r.Fallback.Timestamp(ctx, path)
}

func (Reader) DateTimeOriginal(ctx context.Context, path string) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}

	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			parsed, err := time.ParseInLocation("2006:01:02 15:04:05", str, time.Local)
			if err == nil {
				return parsed, nil
			}
		}
	}

	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.New("exif datetime not found")
}
