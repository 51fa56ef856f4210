// Package mnemonic implements the wire codec between a Share (the
// structured group/member metadata plus the GF(256) row value produced by
// internal/shamir) and its base-1024 word encoding, including the RS1024
// checksum that authenticates the header and value words together.
package mnemonic

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/mrz1836/slip39/internal/secure"
	"github.com/mrz1836/slip39/internal/wordlist"
)

const (
	idLengthBits              = 15
	extendableFlagLengthBits  = 1
	iterationExpLengthBits    = 4
	indexLengthBits           = 4
	bitsPerWord               = 10
	headerLengthBits          = idLengthBits + extendableFlagLengthBits + iterationExpLengthBits + 5*indexLengthBits
	headerLengthWords         = headerLengthBits / bitsPerWord // 4
	metadataLengthWords       = headerLengthWords + checksumLengthWords
	minStrengthBits           = 128
	minValueWordCount         = (minStrengthBits + bitsPerWord - 1) / bitsPerWord // 13 words for a 128-bit secret
	minMnemonicLengthWords    = metadataLengthWords + minValueWordCount          // 20 words
)

// Share is the structured form of one SLIP-39 mnemonic: the group/member
// coordinates from spec.md §4.5 plus the GF(256) row value from
// internal/shamir, without the word encoding.
type Share struct {
	Identifier        uint16
	Extendable        bool
	IterationExponent int
	GroupIndex        int
	GroupThreshold    int
	GroupCount        int
	MemberIndex       int
	MemberThreshold   int
	Value             []byte
}

// Equal reports whether two shares carry the same metadata and value,
// comparing Value in constant time since it may be (part of) a secret.
func (s Share) Equal(other Share) bool {
	if s.Identifier != other.Identifier ||
		s.Extendable != other.Extendable ||
		s.IterationExponent != other.IterationExponent ||
		s.GroupIndex != other.GroupIndex ||
		s.GroupThreshold != other.GroupThreshold ||
		s.GroupCount != other.GroupCount ||
		s.MemberIndex != other.MemberIndex ||
		s.MemberThreshold != other.MemberThreshold {
		return false
	}
	return secure.ConstantTimeEqual(s.Value, other.Value)
}

// Mnemonic encodes s into its space-separated word representation.
func (s Share) Mnemonic() (string, error) {
	if err := s.validateParams(); err != nil {
		return "", err
	}

	valueWordCount := valueWordCountForBytes(len(s.Value))
	totalValueBits := bitsPerWord * valueWordCount
	padding := uint(totalValueBits - 8*len(s.Value))
	if padding > 8 {
		return "", ErrInvalidPaddingLength.withDetail(fmt.Sprintf("value length %d bytes", len(s.Value)))
	}

	header := s.packHeader()

	value := new(big.Int).SetBytes(s.Value)
	value.Lsh(value, padding)

	words := make([]uint16, headerLengthWords+valueWordCount)
	splitIntoWords(header, words[:headerLengthWords])
	splitIntoWords(value, words[headerLengthWords:])

	checksum := createChecksum(s.Extendable, words)
	words = append(words, checksum[:]...)

	out := make([]string, len(words))
	for i, w := range words {
		out[i] = wordlist.WordAt(w)
	}
	return strings.Join(out, " "), nil
}

// FromMnemonic parses and authenticates a word-encoded share. The RS1024
// checksum is verified before any value bits are trusted.
func FromMnemonic(s string) (Share, error) {
	fields := strings.Fields(Normalize(s))
	if len(fields) < minMnemonicLengthWords {
		return Share{}, ErrTooShort.withDetail(fmt.Sprintf("got %d words, need at least %d", len(fields), minMnemonicLengthWords))
	}

	words := make([]uint16, len(fields))
	for i, f := range fields {
		idx, err := wordlist.IndexOf(f)
		if err != nil {
			return Share{}, ErrUnknownWord.withDetail(err.Error())
		}
		words[i] = idx
	}

	header := joinWords(words[:headerLengthWords])
	share, err := unpackHeader(header)
	if err != nil {
		return Share{}, err
	}

	if !verifyChecksum(share.Extendable, words) {
		prefixLen := 3
		if len(fields) < prefixLen {
			prefixLen = len(fields)
		}
		return Share{}, ErrInvalidChecksum.withDetail(fmt.Sprintf("prefix %q", strings.Join(fields[:prefixLen], " ")))
	}

	valueWords := words[headerLengthWords : len(words)-checksumLengthWords]
	valueBits := bitsPerWord * len(valueWords)
	padding := uint(valueBits % 16)
	if padding > 8 {
		return Share{}, ErrInvalidPaddingLength.withDetail(fmt.Sprintf("%d value words", len(valueWords)))
	}

	value := joinWords(valueWords)

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), padding), big.NewInt(1))
	low := new(big.Int).And(value, mask)
	if low.Sign() != 0 {
		return Share{}, ErrInvalidPadding
	}

	value.Rsh(value, padding)

	valueLen := (valueBits - int(padding)) / 8
	share.Value = leftPadBytes(value.Bytes(), valueLen)

	return share, nil
}

// Normalize lowercases and collapses whitespace runs in a mnemonic string,
// so callers can accept pasted text with irregular spacing.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (s Share) validateParams() error {
	switch {
	case s.GroupThreshold > s.GroupCount:
		return ErrInvalidShareParams.withDetail("group threshold exceeds group count")
	case s.MemberThreshold < 1:
		return ErrInvalidShareParams.withDetail("member threshold must be at least 1")
	case len(s.Value) < minStrengthBits/8:
		return ErrInvalidShareParams.withDetail("value shorter than minimum secret length")
	case len(s.Value)%2 != 0:
		return ErrInvalidShareParams.withDetail("value must have even length")
	case s.Identifier >= 1<<idLengthBits:
		return ErrInvalidShareParams.withDetail("identifier out of range")
	case s.IterationExponent < 0 || s.IterationExponent >= 1<<iterationExpLengthBits:
		return ErrInvalidShareParams.withDetail("iteration exponent out of range")
	case s.GroupIndex < 0 || s.GroupIndex >= 1<<indexLengthBits,
		s.GroupCount < 1 || s.GroupCount > 1<<indexLengthBits,
		s.GroupThreshold < 1 || s.GroupThreshold > 1<<indexLengthBits,
		s.MemberIndex < 0 || s.MemberIndex >= 1<<indexLengthBits,
		s.MemberThreshold > 1<<indexLengthBits:
		return ErrInvalidShareParams.withDetail("group or member index out of range")
	}
	return nil
}

func (s Share) packHeader() *big.Int {
	h := big.NewInt(int64(s.Identifier))

	pushBit := func(v uint64) {
		h.Lsh(h, 1).Or(h, big.NewInt(int64(v)))
	}
	pushBits := func(v uint64, n uint) {
		h.Lsh(h, n).Or(h, big.NewInt(int64(v)))
	}

	var ext uint64
	if s.Extendable {
		ext = 1
	}
	pushBit(ext)
	pushBits(uint64(s.IterationExponent), iterationExpLengthBits)
	pushBits(uint64(s.GroupIndex), indexLengthBits)
	pushBits(uint64(s.GroupThreshold-1), indexLengthBits)
	pushBits(uint64(s.GroupCount-1), indexLengthBits)
	pushBits(uint64(s.MemberIndex), indexLengthBits)
	pushBits(uint64(s.MemberThreshold-1), indexLengthBits)

	return h
}

func unpackHeader(header *big.Int) (Share, error) {
	// header holds headerLengthBits worth of data, built MSB-first in the
	// same field order as packHeader; unpack by reading from the LSB end
	// of a right-to-left field list.
	pop := func(n uint) uint64 {
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), n), big.NewInt(1))
		v := new(big.Int).And(header, mask).Uint64()
		header.Rsh(header, n)
		return v
	}

	memberThreshold := pop(indexLengthBits) + 1
	memberIndex := pop(indexLengthBits)
	groupCount := pop(indexLengthBits) + 1
	groupThreshold := pop(indexLengthBits) + 1
	groupIndex := pop(indexLengthBits)
	iterationExponent := pop(iterationExpLengthBits)
	extendable := pop(extendableFlagLengthBits) == 1
	identifier := pop(idLengthBits)

	share := Share{
		Identifier:        uint16(identifier),
		Extendable:        extendable,
		IterationExponent: int(iterationExponent),
		GroupIndex:        int(groupIndex),
		GroupThreshold:    int(groupThreshold),
		GroupCount:        int(groupCount),
		MemberIndex:       int(memberIndex),
		MemberThreshold:   int(memberThreshold),
	}
	if share.GroupThreshold > share.GroupCount {
		return Share{}, ErrInvalidShareParams.withDetail("decoded group threshold exceeds group count")
	}
	return share, nil
}

// valueWordCountForBytes returns how many 10-bit words are needed to carry
// an L-byte value (spec.md's value_word_count, ceil(8L/10)).
func valueWordCountForBytes(l int) int {
	bits := 8 * l
	return (bits + bitsPerWord - 1) / bitsPerWord
}

// splitIntoWords writes value (MSB-first) into dst as bitsPerWord-wide
// words, most significant word first.
func splitIntoWords(value *big.Int, dst []uint16) {
	v := new(big.Int).Set(value)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bitsPerWord), big.NewInt(1))
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = uint16(new(big.Int).And(v, mask).Uint64())
		v.Rsh(v, bitsPerWord)
	}
}

// joinWords reassembles words (bitsPerWord-wide, most significant first)
// into a single big.Int.
func joinWords(words []uint16) *big.Int {
	v := new(big.Int)
	for _, w := range words {
		v.Lsh(v, bitsPerWord)
		v.Or(v, big.NewInt(int64(w)))
	}
	return v
}

func leftPadBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
