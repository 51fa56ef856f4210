package shamir

import "errors"

var (
	// ErrDigestMismatch is returned by Recover when the reconstructed
	// digest row does not authenticate the reconstructed secret row
	// (spec.md §4.3).
	ErrDigestMismatch = errors.New("shamir: digest mismatch during secret recovery")

	// ErrWrongShareCount is a programming error: Recover received a
	// number of rows different from the threshold it was called with.
	ErrWrongShareCount = errors.New("shamir: share count must equal threshold")
)
