package security

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateOpaqueToken returns a hex-encoded random token of n bytes of
// entropy. Used for email verification tokens.
func GenerateOpaqueToken(n int) (string, error) {
	b := make([]byte, n)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
