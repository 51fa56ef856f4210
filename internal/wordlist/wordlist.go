package wordlist

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownWord is returned by IndexOf when a word is not in the list.
// The error string (but never the error value itself) includes the
// nearest wordlist entry by Levenshtein distance, to help a human
// correct a typo -- it is never used for control flow.
var ErrUnknownWord = errors.New("wordlist: word not found")

//nolint:gochecknoglobals // built once from the `words` table at package init
var indexOf map[string]uint16

func init() {
	indexOf = make(map[string]uint16, Size)
	for i, w := range words {
		indexOf[w] = uint16(i)
	}
}

// WordAt returns the word at the given index. It panics if i >= Size,
// since every caller in this module derives i from a decoded 10-bit
// field that is already range-checked.
func WordAt(i uint16) string {
	return words[i]
}

// IndexOf returns the index of word, which must already be normalized
// (lowercase, no surrounding whitespace -- see internal/mnemonic.Normalize).
// On a miss, the returned error's message names the closest wordlist
// entry by edit distance.
func IndexOf(word string) (uint16, error) {
	if i, ok := indexOf[word]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownWord, word, closest(word))
}

// closest returns the wordlist entry with the smallest Levenshtein
// distance to word, breaking ties lexically.
func closest(word string) string {
	best := words[0]
	bestDist := levenshtein.ComputeDistance(word, best)

	for _, w := range words[1:] {
		d := levenshtein.ComputeDistance(word, w)
		if d < bestDist || (d == bestDist && w < best) {
			best = w
			bestDist = d
		}
	}
	return best
}

// Normalize lowercases and trims a single word for lookup. Whole-mnemonic
// normalization (collapsing whitespace runs between words) is
// internal/mnemonic.Normalize's responsibility; this helper exists so
// wordlist can be used standalone.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// sortedCopy is used only by tests to assert the table has no
// duplicates; kept here rather than in _test.go so it can see the
// unexported `words` array without a test-only export.
func sortedCopy() []string {
	out := append([]string(nil), words[:]...)
	sort.Strings(out)
	return out
}
