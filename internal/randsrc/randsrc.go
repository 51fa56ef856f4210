// Package randsrc provides the injectable random-byte source used
// throughout slip39. The default is crypto/rand; tests may replace Reader
// with a deterministic source during process setup (spec §5 — replacement
// is not concurrency-safe and must happen before splitting/combining runs
// concurrently with anything else).
package randsrc

import (
	"crypto/rand"
	"io"
)

// Reader is the cryptographically secure random number generator used by
// every operation that needs fresh entropy (coefficient generation,
// identifiers, salts).
//
//nolint:gochecknoglobals // injection point is required to be package-level for testability
var Reader io.Reader = rand.Reader

// Bytes returns n cryptographically secure random bytes from Reader.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
