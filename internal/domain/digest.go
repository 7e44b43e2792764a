package domain

import "encoding/hex"

// Digest is the 256-bit hash of a file's content.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
