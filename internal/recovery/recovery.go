// Package recovery implements the interactive share-collection state
// machine (spec.md §4.8): accumulating mnemonic.Share values one at a
// time, across however many calls a UI needs, until enough groups have
// reached their member threshold to recover the master secret.
package recovery

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mrz1836/slip39/internal/mnemonic"
	"github.com/mrz1836/slip39/internal/passphrase"
	"github.com/mrz1836/slip39/internal/secure"
	"github.com/mrz1836/slip39/pkg/slip39"
)

// undetermined is returned by GroupStatus for a group that has not yet
// received any share, since its memberThreshold is not yet known.
const undetermined = -1

// groupPrefixLengthWords mirrors spec.md's GROUP_PREFIX_LENGTH_WORDS
// (ID_EXP_LENGTH_WORDS + 1): how many leading words of a synthesized
// mnemonic are fixed for one group (the third word carries the group
// index), so they stay the same across member index choices; used as a
// typing hint in interactive UIs.
const groupPrefixLengthWords = 3

var (
	// ErrParameterMismatch is returned by AddShare when a share's common
	// parameters (identifier, extendable, iterationExponent,
	// groupThreshold, groupCount) differ from the set already in progress.
	ErrParameterMismatch = errors.New("recovery: share is not part of the current set")

	// ErrGroupParameterMismatch is returned when a share's group-level
	// parameters conflict with other members already in its group.
	ErrGroupParameterMismatch = errors.New("recovery: share conflicts with its group's parameters")

	// ErrRateLimited is returned by AddShare when the caller is adding
	// shares faster than the configured rate allows -- a defense against
	// an attacker scripting guesses at share words.
	ErrRateLimited = errors.New("recovery: too many share submissions, slow down")

	// ErrIncomplete is returned by Recover when fewer than groupThreshold
	// groups are complete.
	ErrIncomplete = errors.New("recovery: not enough complete groups yet")
)

// ShareGroup is the set of shares collected so far for one groupIndex.
type ShareGroup struct {
	GroupIndex      int
	MemberThreshold int
	shares          map[int]mnemonic.Share // keyed by MemberIndex
}

func newShareGroup(groupIndex int) *ShareGroup {
	return &ShareGroup{
		GroupIndex:      groupIndex,
		MemberThreshold: undetermined,
		shares:          make(map[int]mnemonic.Share),
	}
}

// add inserts s into the group, coalescing an exact duplicate and
// rejecting a share whose group-level parameters disagree with members
// already present.
func (g *ShareGroup) add(s mnemonic.Share) error {
	if g.MemberThreshold == undetermined {
		g.MemberThreshold = s.MemberThreshold
	} else if g.MemberThreshold != s.MemberThreshold {
		return ErrGroupParameterMismatch
	}

	if existing, ok := g.shares[s.MemberIndex]; ok && !existing.Equal(s) {
		return ErrGroupParameterMismatch
	}
	g.shares[s.MemberIndex] = s
	return nil
}

// isComplete reports whether the group has reached its member threshold.
func (g *ShareGroup) isComplete() bool {
	return g.MemberThreshold != undetermined && len(g.shares) >= g.MemberThreshold
}

// has reports whether s (compared by value) is already present.
func (g *ShareGroup) has(s mnemonic.Share) bool {
	existing, ok := g.shares[s.MemberIndex]
	return ok && existing.Equal(s)
}

// minimalShares returns exactly MemberThreshold shares from the group,
// suitable for recovery; it must only be called once isComplete is true.
func (g *ShareGroup) minimalShares() []mnemonic.Share {
	out := make([]mnemonic.Share, 0, g.MemberThreshold)
	for _, s := range g.shares {
		if len(out) == g.MemberThreshold {
			break
		}
		out = append(out, s)
	}
	return out
}

// State accumulates shares across an interactive recovery session. It is
// safe for concurrent use.
type State struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	parameters *mnemonic.Share
	groups     map[int]*ShareGroup
}

// New returns an empty recovery State. addsPerSecond/burst configure the
// token-bucket limit on AddShare calls (see golang.org/x/time/rate);
// passing a non-positive addsPerSecond disables limiting.
func New(addsPerSecond float64, burst int) *State {
	var limiter *rate.Limiter
	if addsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(addsPerSecond), burst)
	}
	return &State{
		limiter: limiter,
		groups:  make(map[int]*ShareGroup),
	}
}

// AddShare validates and inserts s, rate-limiting submissions and
// rejecting shares that don't belong to the set already in progress.
func (s *State) AddShare(share mnemonic.Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limiter != nil && !s.limiter.Allow() {
		return ErrRateLimited
	}

	if s.parameters != nil {
		if share.Identifier != s.parameters.Identifier ||
			share.Extendable != s.parameters.Extendable ||
			share.IterationExponent != s.parameters.IterationExponent ||
			share.GroupThreshold != s.parameters.GroupThreshold ||
			share.GroupCount != s.parameters.GroupCount {
			return ErrParameterMismatch
		}
	}

	group, ok := s.groups[share.GroupIndex]
	if !ok {
		group = newShareGroup(share.GroupIndex)
		s.groups[share.GroupIndex] = group
	}
	if err := group.add(share); err != nil {
		return err
	}

	if s.parameters == nil {
		p := share
		s.parameters = &p
	}
	return nil
}

// Matches reports whether share is compatible with the set already in
// progress -- its common parameters agree with s.parameters (if any have
// been observed yet) and, if its group has already received a member, its
// memberThreshold agrees too. Unlike AddShare, it never inserts share,
// never consumes a rate-limit token, and never returns an error; a
// mismatch is simply reported as false so a UI can validate a candidate
// share before committing it.
func (s *State) Matches(share mnemonic.Share) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parameters != nil {
		if share.Identifier != s.parameters.Identifier ||
			share.Extendable != s.parameters.Extendable ||
			share.IterationExponent != s.parameters.IterationExponent ||
			share.GroupThreshold != s.parameters.GroupThreshold ||
			share.GroupCount != s.parameters.GroupCount {
			return false
		}
	}

	if group, ok := s.groups[share.GroupIndex]; ok && group.MemberThreshold != undetermined {
		if group.MemberThreshold != share.MemberThreshold {
			return false
		}
	}

	return true
}

// Has reports whether an equal share has already been recorded.
func (s *State) Has(share mnemonic.Share) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[share.GroupIndex]
	return ok && group.has(share)
}

// GroupStatus reports how many members have been entered for groupIndex
// and the group's memberThreshold (undetermined == -1 before the first
// share for that group arrives).
func (s *State) GroupStatus(groupIndex int) (entered, threshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupIndex]
	if !ok {
		return 0, undetermined
	}
	return len(group.shares), group.MemberThreshold
}

// GroupIsComplete reports whether groupIndex has reached its member
// threshold.
func (s *State) GroupIsComplete(groupIndex int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupIndex]
	return ok && group.isComplete()
}

// GroupsComplete returns how many groups have reached their member
// threshold.
func (s *State) GroupsComplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupsCompleteLocked()
}

func (s *State) groupsCompleteLocked() int {
	n := 0
	for _, g := range s.groups {
		if g.isComplete() {
			n++
		}
	}
	return n
}

// IsComplete reports whether enough groups are complete to recover the
// secret (spec.md §4.8's terminal condition).
func (s *State) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parameters == nil {
		return false
	}
	return s.groupsCompleteLocked() >= s.parameters.GroupThreshold
}

// GroupPrefix synthesizes a throwaway mnemonic for groupIndex using
// whatever common parameters have been observed so far (or placeholder
// defaults, before any share has arrived) and returns its first
// groupPrefixLengthWords words -- the portion of a share's wire encoding
// that is stable regardless of member index or value, useful as a
// typing hint in an interactive UI.
func (s *State) GroupPrefix(groupIndex int) (string, error) {
	s.mu.Lock()
	template := s.prefixTemplate(groupIndex)
	s.mu.Unlock()

	m, err := template.Mnemonic()
	if err != nil {
		return "", err
	}

	words := strings.Fields(m)
	if len(words) < groupPrefixLengthWords {
		return m, nil
	}
	return strings.Join(words[:groupPrefixLengthWords], " "), nil
}

func (s *State) prefixTemplate(groupIndex int) mnemonic.Share {
	placeholderValue := make([]byte, 16)

	if s.parameters != nil {
		p := *s.parameters
		p.GroupIndex = groupIndex
		p.MemberIndex = 0
		if group, ok := s.groups[groupIndex]; ok && group.MemberThreshold != undetermined {
			p.MemberThreshold = group.MemberThreshold
		} else {
			p.MemberThreshold = 1
		}
		p.Value = placeholderValue
		return p
	}

	count := groupIndex + 1
	return mnemonic.Share{
		Extendable:      true,
		GroupIndex:      groupIndex,
		GroupThreshold:  1,
		GroupCount:      count,
		MemberIndex:     0,
		MemberThreshold: 1,
		Value:           placeholderValue,
	}
}

// Recover selects up to groupThreshold complete groups (in map iteration
// order), trims each to exactly its memberThreshold, and recovers and
// decrypts the master secret.
func (s *State) Recover(pass any) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.parameters == nil || s.groupsCompleteLocked() < s.parameters.GroupThreshold {
		return nil, ErrIncomplete
	}

	selected := make(map[int][]mnemonic.Share, s.parameters.GroupThreshold)
	for idx, group := range s.groups {
		if len(selected) == s.parameters.GroupThreshold {
			break
		}
		if !group.isComplete() {
			continue
		}
		selected[idx] = group.minimalShares()
	}

	recoveredEMS, err := slip39.RecoverEMS(selected)
	if err != nil {
		return nil, err
	}
	defer recoveredEMS.Zero()

	passBytes, err := passphrase.Normalize(pass)
	if err != nil {
		return nil, err
	}
	defer secure.Zero(passBytes)

	return recoveredEMS.Decrypt(passBytes), nil
}
