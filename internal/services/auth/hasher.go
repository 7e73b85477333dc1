package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword derives the stored credential digest from a username and
// password. The username acts as a per-account salt, so identical passwords
// under different usernames produce different digests. The scheme is kept
// as-is for compatibility with already provisioned digests.
func HashPassword(username, password string) string {
	sum := sha256.Sum256([]byte(username + ":" + password))
	return hex.EncodeToString(sum[:])
}
