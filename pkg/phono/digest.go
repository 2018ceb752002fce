package phono

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest returns the hex BLAKE3-256 hash of the MFA rendering of d. Two
// runs over the same corpus produce the same digest.
func Digest(d Dictionary) string {
	return DigestBytes(MarshalMFA(d))
}

// DigestBytes returns the hex BLAKE3-256 hash of b.
func DigestBytes(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
