// Package secure provides memory-hygiene helpers for secret-bearing byte
// buffers: mlock-backed storage, zeroing, owned copies, and constant-time
// comparison.
package secure

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// Bytes is a wrapper for sensitive byte slices that locks the backing
// memory (best effort) and guarantees zeroing on Destroy.
type Bytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// New allocates a zeroed Bytes of the given size.
func New(size int) *Bytes {
	data := make([]byte, size)

	sb := &Bytes{data: data}
	sb.locked = mlock(data)

	runtime.SetFinalizer(sb, func(s *Bytes) {
		s.Destroy()
	})

	return sb
}

// FromSlice copies data into a new owned Bytes. The caller retains
// ownership of the original slice.
func FromSlice(data []byte) *Bytes {
	sb := New(len(data))
	copy(sb.data, data)
	return sb
}

// Bytes returns the underlying slice, or nil if the buffer was destroyed.
func (s *Bytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len returns the length of the buffer, or 0 if destroyed.
func (s *Bytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// IsLocked reports whether the backing memory is mlocked.
func (s *Bytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeros and unlocks the memory. Safe to call multiple times.
func (s *Bytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Zero(s.data)

	if s.locked {
		munlock(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// Zero overwrites every byte of buf with zero. It is used on every exit
// path of a function that materializes a secret-bearing buffer it no
// longer needs, including error paths (spec resource policy, §5).
func Zero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyBytes returns an independent owned copy of src.
func CopyBytes(src []byte) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// ConstantTimeEqual reports whether a and b hold the same bytes, without
// branching on their content. A length mismatch still scans the shorter
// length's worth of comparisons before returning false, so callers cannot
// distinguish "wrong length" from "wrong content" by timing.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		// Compare the common prefix of a and b so the cost is similar to
		// the matching-length case, then report unequal regardless.
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		_ = subtle.ConstantTimeCompare(a[:n], b[:n])
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
