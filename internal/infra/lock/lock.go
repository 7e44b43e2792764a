package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"shootcopy/internal/infra/checksum"
)

// ErrLocked is returned when another run already holds the destination.
var ErrLocked = errors.New("another shootcopy run is writing to this destination")

// DestinationLock serializes runs writing into the same destination root.
// The lock file lives in the temp directory so nothing is added to the
// backup tree.
type DestinationLock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for a destination root.
func PathFor(destination string) (string, error) {
	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", fmt.Errorf("resolve destination: %w", err)
	}
	key := checksum.String(filepath.Clean(abs)).String()[:16]
	return filepath.Join(os.TempDir(), "shootcopy-"+key+".lock"), nil
}

// Acquire takes the destination lock without waiting.
func Acquire(destination string) (*DestinationLock, error) {
	path, err := PathFor(destination)
	if err != nil {
		return nil, err
	}
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return &DestinationLock{path: path, lock: l}, nil
}

func (d *DestinationLock) Path() string {
	return d.path
}

func (d *DestinationLock) Release() error {
	if d == nil || d.lock == nil {
		return nil
	}
	return d.lock.Unlock()
}
