package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Error codes carried in JSON error payloads alongside the HTTP status.
const (
	ErrorSessionAuthFail = 20001
)

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// RandomAlphabetString returns a random lower-case string of the given
// length. Not cryptographically secure, use for names only.
func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Sha256Hex is the fixed one-way digest applied to passwords at the client
// boundary: hex-encoded SHA-256 over the UTF-8 bytes. The server only ever
// stores and compares these digests.
func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}
