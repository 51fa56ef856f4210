// Package ems implements the EncryptedMasterSecret record and the
// encrypt/decrypt operations that wrap internal/feistel with parameter
// validation (spec.md §4.5).
package ems

import (
	"errors"

	"github.com/mrz1836/slip39/internal/feistel"
	"github.com/mrz1836/slip39/internal/secure"
)

// MinSecretBytes is the minimum master-secret / ciphertext length
// (spec.md MIN_STRENGTH_BITS / 8).
const MinSecretBytes = 16

var (
	// ErrSecretTooShort is returned when a master secret is shorter than
	// MinSecretBytes.
	ErrSecretTooShort = errors.New("ems: master secret must be at least 16 bytes")

	// ErrSecretOddLength is returned when a master secret has odd length
	// (the Feistel cipher requires two equal halves).
	ErrSecretOddLength = errors.New("ems: master secret must have even length")
)

// EMS is an encrypted master secret: the Feistel ciphertext plus the
// metadata needed to decrypt it again.
type EMS struct {
	Identifier        uint16
	Extendable        bool
	IterationExponent int
	Ciphertext        []byte
}

// FromMasterSecret encrypts masterSecret under passphrase, producing an
// EMS ready to be Shamir-split.
func FromMasterSecret(masterSecret, passphrase []byte, identifier uint16, extendable bool, iterationExponent int) (*EMS, error) {
	if err := validate(masterSecret); err != nil {
		return nil, err
	}

	ciphertext := feistel.Encrypt(masterSecret, passphrase, identifier, extendable, iterationExponent)
	return &EMS{
		Identifier:        identifier,
		Extendable:        extendable,
		IterationExponent: iterationExponent,
		Ciphertext:        ciphertext,
	}, nil
}

// Decrypt reverses FromMasterSecret, returning the original master
// secret bytes (or, under the wrong passphrase, equal-length plausible
// bytes — the Feistel cipher never signals failure on its own).
func (e *EMS) Decrypt(passphrase []byte) []byte {
	return feistel.Decrypt(e.Ciphertext, passphrase, e.Identifier, e.Extendable, e.IterationExponent)
}

// Zero destroys the ciphertext in place.
func (e *EMS) Zero() {
	secure.Zero(e.Ciphertext)
}

func validate(masterSecret []byte) error {
	if len(masterSecret)%2 != 0 {
		return ErrSecretOddLength
	}
	if len(masterSecret) < MinSecretBytes {
		return ErrSecretTooShort
	}
	return nil
}
