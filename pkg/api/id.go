package api

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// NewID returns a random UUIDv4 string.
func NewID() string {
	return uuid.NewString()
}

// Digest returns the hex BLAKE3 digest of s, truncated to 16 bytes.
func Digest(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
