package mnemonic

import "github.com/mrz1836/slip39/internal/feistel"

// checksumLengthWords is the number of 10-bit words RS1024 produces
// (spec.md CHECKSUM_LENGTH_WORDS).
const checksumLengthWords = 3

// gen is the RS1024 generator polynomial table (spec.md §4.6).
var gen = [10]uint32{
	0xE0E040, 0x1C1C080, 0x3838100, 0x7070200, 0xE0E0009,
	0x1C0C2412, 0x38086C24, 0x3090FC48, 0x21B1F890, 0x3F3F120,
}

// polymod folds a sequence of 10-bit values into the 30-bit BCH state
// (spec.md §4.6).
func polymod(values []uint32) uint32 {
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 20
		chk = ((chk & 0xFFFFF) << 10) ^ v
		for i := 0; i < 10; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// customizationValues converts the ASCII customization string into
// 10-bit polymod inputs (each byte's value, high bits zero).
func customizationValues(extendable bool) []uint32 {
	cs := feistel.CustomizationString(extendable)
	out := make([]uint32, len(cs))
	for i, b := range cs {
		out[i] = uint32(b)
	}
	return out
}

// createChecksum computes the 3-word RS1024 checksum for data (the
// mnemonic's header+value words), under the given customization domain.
func createChecksum(extendable bool, data []uint16) [checksumLengthWords]uint16 {
	values := append(customizationValues(extendable), widen(data)...)
	values = append(values, 0, 0, 0)

	result := polymod(values) ^ 1

	var checksum [checksumLengthWords]uint16
	for i := 0; i < checksumLengthWords; i++ {
		shift := uint(10 * (checksumLengthWords - 1 - i))
		checksum[i] = uint16((result >> shift) & 0x3FF)
	}
	return checksum
}

// verifyChecksum reports whether wordsWithChecksum (header+value+checksum
// words, in wire order) verify under the given customization domain.
func verifyChecksum(extendable bool, wordsWithChecksum []uint16) bool {
	values := append(customizationValues(extendable), widen(wordsWithChecksum)...)
	return polymod(values) == 1
}

func widen(words []uint16) []uint32 {
	out := make([]uint32, len(words))
	for i, w := range words {
		out[i] = uint32(w)
	}
	return out
}
