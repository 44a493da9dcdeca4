package utils // package utils provides hashing and random token helpers

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding of the random bytes
)

// SessionTokenBytes is the entropy of a session token (256 bits).
const SessionTokenBytes = 32

// RandomToken returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  Session tokens are produced with
// n = SessionTokenBytes.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
