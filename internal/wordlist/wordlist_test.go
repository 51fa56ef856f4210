package wordlist

import (
	"strings"
	"testing"
)

func TestSizeIsRadix(t *testing.T) {
	if len(words) != 1024 {
		t.Fatalf("len(words) = %d, want 1024", len(words))
	}
}

func TestNoDuplicates(t *testing.T) {
	sorted := sortedCopy()
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			t.Fatalf("duplicate word %q", sorted[i])
		}
	}
}

func TestWordAtIndexOfRoundTrip(t *testing.T) {
	for i := uint16(0); i < Size; i++ {
		w := WordAt(i)
		got, err := IndexOf(w)
		if err != nil {
			t.Fatalf("IndexOf(%q): %v", w, err)
		}
		if got != i {
			t.Fatalf("IndexOf(WordAt(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestIndexOfUnknownWordSuggests(t *testing.T) {
	_, err := IndexOf("notarealword")
	if err == nil {
		t.Fatal("expected an error for an unknown word")
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("error %q carries no suggestion", err.Error())
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Academic  "); got != "academic" {
		t.Fatalf("Normalize() = %q", got)
	}
}

// TestPrefixesAreUnique locks in the bijection's load-bearing property:
// no two entries share the same first four characters, so a UI can
// disambiguate any word from a short typed prefix.
func TestPrefixesAreUnique(t *testing.T) {
	seen := make(map[string]string, Size)
	for i := uint16(0); i < Size; i++ {
		w := WordAt(i)
		p := w
		if len(p) > 4 {
			p = p[:4]
		}
		if other, ok := seen[p]; ok {
			t.Fatalf("prefix %q ambiguous between %q and %q", p, other, w)
		}
		seen[p] = w
	}
}
