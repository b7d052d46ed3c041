package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a filesystem-safe identifier for a user ID.
func HashUserKey(s string) string {
	return sha256Hex([]byte(s))
}

// HashContent fingerprints resume text so identical submissions can be recognized.
func HashContent(text string) string {
	return sha256Hex([]byte(text))
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
