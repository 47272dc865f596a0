package document

import (
	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Checksum creates a 64-bit highwayhash of the text.
func Checksum(text string) uint64 {
	h, err := highwayhash.New64(key)
	if err != nil {
		return 0
	}
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}
