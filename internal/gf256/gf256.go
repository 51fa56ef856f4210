// Package gf256 implements GF(2^8) arithmetic over the Rijndael reducing
// polynomial x^8+x^4+x^3+x+1, and Lagrange interpolation of byte-vector
// polynomials over that field. It is the secret-sharing engine spec.md
// §4.1-4.2 describes.
package gf256

import "sync"

const (
	// reducingPolynomial is x^8 + x^4 + x^3 + x + 1 (0x11b).
	reducingPolynomial = 0x11b

	// fieldSize is the number of elements in GF(2^8).
	fieldSize = 256

	// order is the size of the multiplicative group (fieldSize - 1).
	order = fieldSize - 1
)

var (
	//nolint:gochecknoglobals // precomputed table, built once by initTables
	expTable [fieldSize]byte
	//nolint:gochecknoglobals // precomputed table, built once by initTables
	logTable [fieldSize]byte
	//nolint:gochecknoglobals // sync.Once guarding the tables above
	tablesInit sync.Once
)

// initTables builds exp/log tables for generator g = x+1 (3), the
// conventional SLIP-39 generator: exp[i] = g^i, log[exp[i]] = i.
func initTables() {
	tablesInit.Do(func() {
		var x uint16 = 1
		for i := 0; i < order; i++ {
			expTable[i] = byte(x)
			logTable[x] = byte(i)

			// Multiply by g = x+1: (v << 1) ^ v, reduced mod the field
			// polynomial when it overflows 8 bits.
			x = (x << 1) ^ x
			if x >= fieldSize {
				x ^= reducingPolynomial
			}
		}
		// exp is periodic with period `order`; exp[order] would equal
		// exp[0] (=1) if ever indexed, so the table need not store it.
	})
}

// Add returns a+b in GF(2^8) (XOR).
func Add(a, b byte) byte { return a ^ b }

// Mul returns a*b in GF(2^8) using the log/exp tables.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	initTables()
	return expTable[(int(logTable[a])+int(logTable[b]))%order]
}

// exp returns g^i, reducing i into [0, order).
func exp(i int) byte {
	initTables()
	i %= order
	if i < 0 {
		i += order
	}
	return expTable[i]
}

// log returns the discrete log of the nonzero element a.
func log(a byte) int {
	initTables()
	return int(logTable[a])
}

// Interpolate evaluates, at the query point x, the unique degree-(k-1)
// polynomial over each byte position defined by k points {(xs[i], ys[i])}
// with distinct xs[i]. ys[i] are equal-length byte vectors; the result has
// the same length.
//
// If x equals some xs[i], Interpolate returns a copy of ys[i] without
// computing anything (spec.md §4.2 short-circuit).
func Interpolate(xs []byte, ys [][]byte, x byte) ([]byte, error) {
	if err := validate(xs, ys); err != nil {
		return nil, err
	}

	for i, xi := range xs {
		if xi == x {
			out := make([]byte, len(ys[i]))
			copy(out, ys[i])
			return out, nil
		}
	}

	n := len(xs)
	var logProd int
	for _, xj := range xs {
		logProd += log(xj ^ x)
	}

	logCoeff := make([]int, n)
	for i := range xs {
		sum := logProd - log(xs[i]^x)
		for j, xj := range xs {
			if j == i {
				continue
			}
			sum -= log(xs[i] ^ xj)
		}
		sum %= order
		if sum < 0 {
			sum += order
		}
		logCoeff[i] = sum
	}

	valLen := len(ys[0])
	result := make([]byte, valLen)
	for byteIdx := 0; byteIdx < valLen; byteIdx++ {
		var acc byte
		for i := range xs {
			yi := ys[i][byteIdx]
			if yi == 0 {
				continue
			}
			acc = Add(acc, exp(log(yi)+logCoeff[i]))
		}
		result[byteIdx] = acc
	}
	return result, nil
}

func validate(xs []byte, ys [][]byte) error {
	if len(xs) != len(ys) {
		return errMismatchedRowCount
	}
	if len(xs) == 0 {
		return errNoShares
	}

	seen := make(map[byte]struct{}, len(xs))
	for _, xi := range xs {
		if _, dup := seen[xi]; dup {
			return errDuplicateIndices
		}
		seen[xi] = struct{}{}
	}

	firstLen := len(ys[0])
	for _, y := range ys[1:] {
		if len(y) != firstLen {
			return errVaryingLengths
		}
	}
	return nil
}
