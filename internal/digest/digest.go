// Package digest computes the 4-byte integrity authenticator used to
// verify that a set of shares reconstructs the intended secret
// (spec.md §4.2).
package digest

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Length is the digest size in bytes (spec.md DIGEST_LENGTH_BYTES).
const Length = 4

// Compute returns HMAC-SHA256(key=randomPart, msg=sharedSecret) truncated
// to the first Length bytes.
func Compute(randomPart, sharedSecret []byte) []byte {
	mac := hmac.New(sha256.New, randomPart)
	mac.Write(sharedSecret)
	return mac.Sum(nil)[:Length]
}

// Verify reports whether digest authenticates sharedSecret under
// randomPart, comparing in constant time.
func Verify(digestValue, randomPart, sharedSecret []byte) bool {
	if len(digestValue) != Length {
		return false
	}
	expected := Compute(randomPart, sharedSecret)
	return hmac.Equal(expected, digestValue)
}
