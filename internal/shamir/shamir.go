// Package shamir implements the SLIP-0039 secret-sharing engine: Shamir
// splitting and recovery over GF(2^8), authenticated by a digest row
// (spec.md §4.3). It operates on raw (x, data) rows; the mnemonic wire
// format and the two-level group/member composition live in higher
// layers (internal/mnemonic, pkg/slip39).
package shamir

import (
	"github.com/mrz1836/slip39/internal/digest"
	"github.com/mrz1836/slip39/internal/gf256"
	"github.com/mrz1836/slip39/internal/randsrc"
	"github.com/mrz1836/slip39/internal/secure"
)

const (
	// DigestIndex is the reserved x-coordinate carrying the digest row
	// (spec.md SECRET_INDEX/DIGEST_INDEX are chosen at the top of the
	// byte range so they never collide with generated member indices in
	// [0,16)).
	DigestIndex byte = 254

	// SecretIndex is the reserved x-coordinate carrying the secret row.
	SecretIndex byte = 255
)

// Row is a single (x, data) point of the sharing polynomial.
type Row struct {
	X    byte
	Data []byte
}

// Split turns a (threshold, count, secret) triple into count rows at
// x = 0..count-1, such that any threshold of them reconstruct secret via
// Recover. Split does not validate its arguments: 1 <= threshold <= count
// <= 16 is enforced by callers (spec.md §4.3), which keeps every x below
// the reserved DigestIndex and SecretIndex rows.
func Split(threshold, count int, secret []byte) ([]Row, error) {
	if threshold == 1 {
		rows := make([]Row, count)
		for i := 0; i < count; i++ {
			rows[i] = Row{X: byte(i), Data: secure.CopyBytes(secret)}
		}
		return rows, nil
	}

	randomRows, err := randomShares(threshold-2, len(secret))
	if err != nil {
		return nil, err
	}

	randomPart, err := randsrc.Bytes(len(secret) - digest.Length)
	if err != nil {
		return nil, err
	}
	defer secure.Zero(randomPart)

	digestValue := digest.Compute(randomPart, secret)
	digestRow := append(append([]byte{}, digestValue...), randomPart...)

	baseXs := make([]byte, 0, threshold)
	baseYs := make([][]byte, 0, threshold)
	for _, r := range randomRows {
		baseXs = append(baseXs, r.X)
		baseYs = append(baseYs, r.Data)
	}
	baseXs = append(baseXs, DigestIndex, SecretIndex)
	baseYs = append(baseYs, digestRow, secret)

	rows := make([]Row, 0, count)
	rows = append(rows, randomRows...)
	for x := threshold - 2; x < count; x++ {
		data, interpErr := gf256.Interpolate(baseXs, baseYs, byte(x))
		if interpErr != nil {
			return nil, interpErr
		}
		rows = append(rows, Row{X: byte(x), Data: data})
	}
	return rows, nil
}

// Recover reconstructs the secret from exactly threshold rows produced by
// Split with the same threshold. For threshold == 1 it returns a copy of
// the single row's data; otherwise it interpolates the secret and digest
// rows and verifies the digest, zeroing intermediates on every path.
func Recover(threshold int, rows []Row) ([]byte, error) {
	if len(rows) != threshold {
		return nil, ErrWrongShareCount
	}

	if threshold == 1 {
		return secure.CopyBytes(rows[0].Data), nil
	}

	xs := make([]byte, len(rows))
	ys := make([][]byte, len(rows))
	for i, r := range rows {
		xs[i] = r.X
		ys[i] = r.Data
	}

	secretValue, err := gf256.Interpolate(xs, ys, SecretIndex)
	if err != nil {
		return nil, err
	}

	digestRow, err := gf256.Interpolate(xs, ys, DigestIndex)
	if err != nil {
		secure.Zero(secretValue)
		return nil, err
	}
	defer secure.Zero(digestRow)

	digestValue, randomPart := digestRow[:digest.Length], digestRow[digest.Length:]
	if !digest.Verify(digestValue, randomPart, secretValue) {
		secure.Zero(secretValue)
		return nil, ErrDigestMismatch
	}

	return secretValue, nil
}

// randomShares generates n random rows of length valueLen at
// x = 0..n-1.
func randomShares(n, valueLen int) ([]Row, error) {
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		data, err := randsrc.Bytes(valueLen)
		if err != nil {
			return nil, err
		}
		rows[i] = Row{X: byte(i), Data: data}
	}
	return rows, nil
}
