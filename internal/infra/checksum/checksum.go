package checksum

import (
	"errors"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"shootcopy/internal/domain"
)

// DefaultBufferSize is the read chunk size used when Hasher.BufferSize is unset.
const DefaultBufferSize = 64 * 1024

// Hasher digests file content in fixed-size chunks. Only bytes are hashed;
// names, paths and timestamps never influence the result.
type Hasher struct {
	BufferSize int
}

// Sum digests the file at path.
func (h Hasher) Sum(path string) (domain.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Digest{}, err
	}
	defer file.Close()

	return h.SumReader(file)
}

// SumReader digests everything readable from r.
func (h Hasher) SumReader(r io.Reader) (domain.Digest, error) {
	size := h.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	hasher := blake3.New()

	for {
		n, err := r.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Digest{}, err
		}
	}

	var digest domain.Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String digests a string, for short identifiers derived from paths.
func String(value string) domain.Digest {
	return blake3.Sum256([]byte(value))
}
