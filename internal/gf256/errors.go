package gf256

import "errors"

var (
	// errDuplicateIndices is returned when two interpolation points share
	// an x-coordinate.
	errDuplicateIndices = errors.New("share indices must be unique")

	// errVaryingLengths is returned when interpolation points carry
	// byte vectors of differing length.
	errVaryingLengths = errors.New("share values must have the same length")

	// errMismatchedRowCount is a programming error: caller passed
	// differing numbers of x-coordinates and y-vectors.
	errMismatchedRowCount = errors.New("gf256: mismatched x/y row counts")

	// errNoShares is a programming error: interpolation needs at least
	// one point.
	errNoShares = errors.New("gf256: at least one point is required")
)

// ErrDuplicateIndices is the sentinel for duplicate x-coordinates across
// interpolation inputs (spec.md §4.2).
var ErrDuplicateIndices = errDuplicateIndices

// ErrVaryingLengths is the sentinel for inconsistent per-share byte
// lengths across interpolation inputs (spec.md §4.2).
var ErrVaryingLengths = errVaryingLengths
