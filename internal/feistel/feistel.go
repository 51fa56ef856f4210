// Package feistel implements the four-round unbalanced Feistel cipher
// SLIP-39 uses to encrypt the master secret under a passphrase before it
// is split (spec.md §4.4). The round function is PBKDF2-HMAC-SHA256.
package feistel

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// RoundCount is the number of Feistel rounds.
	RoundCount = 4

	// BaseIterationCount is the PBKDF2 iteration count at
	// iterationExponent == 0 (spec.md BASE_ITERATION_COUNT).
	BaseIterationCount = 10000

	// idLengthBits is the bit width of the identifier field. The salt
	// for non-extendable shares writes the identifier as two big-endian
	// bytes directly; this constant is not referenced.
	idLengthBits = 15
)

var (
	customizationShamir           = []byte("shamir")
	customizationShamirExtendable = []byte("shamir_extendable")
)

// CustomizationString returns the domain-separation prefix for the given
// extendable flag (spec.md §3). It is reused by the mnemonic checksum,
// which is why it lives alongside the cipher rather than in the codec.
func CustomizationString(extendable bool) []byte {
	if extendable {
		return customizationShamirExtendable
	}
	return customizationShamir
}

// iterations returns the PBKDF2 iteration count for round function calls
// at the given iteration exponent: (10000 << e) / 4, computed in integer
// arithmetic. spec.md §9 guarantees this division is always exact.
func iterations(iterationExponent int) int {
	return (BaseIterationCount << uint(iterationExponent)) / RoundCount
}

// salt returns the PBKDF2 salt for the given identifier/extendable pair.
// Extendable shares use an empty salt so the identifier does not
// participate in key derivation (spec.md §4.4 rationale: this lets two
// mnemonic sets with distinct identifiers decrypt to the same secret
// under the same passphrase).
func salt(identifier uint16, extendable bool) []byte {
	if extendable {
		return nil
	}
	idBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(idBytes, identifier)
	return append(append([]byte{}, customizationShamir...), idBytes...)
}

// roundFunction computes F_i for round i against the right half r, per
// spec.md §4.4.
func roundFunction(round byte, passphrase, saltPrefix, r []byte, iterationExponent int) []byte {
	password := append([]byte{round}, passphrase...)
	fullSalt := append(append([]byte{}, saltPrefix...), r...)
	return pbkdf2.Key(password, fullSalt, iterations(iterationExponent), len(r), sha256.New)
}

// Encrypt runs the four Feistel rounds forward (i = 0..3) over
// masterSecret, split into equal halves L‖R. Returns R‖L after the final
// swap. len(masterSecret) must be even; this is a caller invariant, not
// re-validated here (spec.md §3 share-value invariant is enforced by
// callers that hold the length contract, e.g. internal/ems).
func Encrypt(masterSecret, passphrase []byte, identifier uint16, extendable bool, iterationExponent int) []byte {
	return run(masterSecret, passphrase, identifier, extendable, iterationExponent, false)
}

// Decrypt runs the four Feistel rounds in reverse (i = 3..0), inverting
// Encrypt.
func Decrypt(masterSecret, passphrase []byte, identifier uint16, extendable bool, iterationExponent int) []byte {
	return run(masterSecret, passphrase, identifier, extendable, iterationExponent, true)
}

func run(data, passphrase []byte, identifier uint16, extendable bool, iterationExponent int, reverse bool) []byte {
	half := len(data) / 2
	l := append([]byte{}, data[:half]...)
	r := append([]byte{}, data[half:]...)

	saltPrefix := salt(identifier, extendable)

	for step := 0; step < RoundCount; step++ {
		round := step
		if reverse {
			round = RoundCount - 1 - step
		}

		f := roundFunction(byte(round), passphrase, saltPrefix, r, iterationExponent)
		newR := make([]byte, half)
		for i := range newR {
			newR[i] = l[i] ^ f[i]
		}
		l, r = r, newR
	}

	out := make([]byte, len(data))
	copy(out, r)
	copy(out[half:], l)
	return out
}
