package mnemonic

import (
	"errors"
	"fmt"
)

// Error is the domain-specific error kind spec.md §7 calls MnemonicError:
// raised only for malformed wire data (bad checksum, bad padding,
// inconsistent parameters), never for programmer-usage mistakes.
type Error struct {
	sentinel error
	detail   string
}

func (e *Error) Error() string {
	if e.detail == "" {
		return e.sentinel.Error()
	}
	return fmt.Sprintf("%s: %s", e.sentinel.Error(), e.detail)
}

func (e *Error) Unwrap() error { return e.sentinel }

// withDetail returns a copy of the sentinel Error carrying extra context
// (e.g. the offending word or a mnemonic prefix excerpt).
func (e *Error) withDetail(detail string) *Error {
	return &Error{sentinel: e.sentinel, detail: detail}
}

// IsMnemonicError reports whether err is (or wraps) a mnemonic.Error.
func IsMnemonicError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

var (
	// ErrTooShort is raised when a mnemonic has fewer than
	// MinMnemonicLengthWords words.
	ErrTooShort = &Error{sentinel: errors.New("mnemonic too short")}

	// ErrInvalidPaddingLength is raised when the computed padding exceeds
	// 8 bits -- a word count that can never come from a valid share.
	ErrInvalidPaddingLength = &Error{sentinel: errors.New("mnemonic length implies invalid padding")}

	// ErrInvalidPadding is raised when the low-order padding bits of the
	// decoded value are nonzero.
	ErrInvalidPadding = &Error{sentinel: errors.New("invalid padding, nonzero high-order bits")}

	// ErrInvalidChecksum is raised when the RS1024 checksum does not
	// verify.
	ErrInvalidChecksum = &Error{sentinel: errors.New("invalid mnemonic checksum")}

	// ErrInvalidShareParams is raised when decoded group/member
	// parameters are internally inconsistent (e.g. groupCount <
	// groupThreshold).
	ErrInvalidShareParams = &Error{sentinel: errors.New("invalid share parameters")}

	// ErrUnknownWord is raised when a mnemonic word is not in the
	// wordlist.
	ErrUnknownWord = &Error{sentinel: errors.New("unrecognized mnemonic word")}
)
