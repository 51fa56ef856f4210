// Package passphrase implements SLIP-39 passphrase normalization
// (spec.md §4.5): accepting either a string or raw bytes, validating
// UTF-8, and (for generation only) requiring printable ASCII.
package passphrase

import (
	"errors"
	"unicode/utf8"
)

var (
	// ErrNotValidUTF8 is returned when byte input does not round-trip
	// through UTF-8 decode/encode unchanged.
	ErrNotValidUTF8 = errors.New("passphrase: bytes are not valid UTF-8")

	// ErrNotPrintableASCII is returned by RequirePrintableASCII when a
	// byte falls outside the printable ASCII range (spec.md 32-126).
	ErrNotPrintableASCII = errors.New("passphrase: must be printable ASCII")
)

// Normalize accepts either a string or a []byte and returns the
// passphrase's canonical byte encoding. A string is UTF-8 encoded. Byte
// input is accepted only if it round-trips through UTF-8 decode/encode
// unchanged.
func Normalize(input any) ([]byte, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		if !utf8.Valid(v) {
			return nil, ErrNotValidUTF8
		}
		return append([]byte{}, v...), nil
	default:
		return nil, ErrNotValidUTF8
	}
}

// RequirePrintableASCII enforces the additional constraint
// generateMnemonics places on passphrases: every byte must be in
// [32, 126] (spec.md §4.5).
func RequirePrintableASCII(b []byte) error {
	for _, c := range b {
		if c < 32 || c > 126 {
			return ErrNotPrintableASCII
		}
	}
	return nil
}
