// Package slip39 implements the SLIP-0039 two-level (group/member) Shamir
// secret-sharing orchestration: turning a master secret into group-bucketed
// mnemonic sets and combining mnemonic sets back into the master secret.
package slip39

import (
	"encoding/binary"
	"fmt"

	"github.com/mrz1836/slip39/internal/ems"
	"github.com/mrz1836/slip39/internal/mnemonic"
	"github.com/mrz1836/slip39/internal/passphrase"
	"github.com/mrz1836/slip39/internal/randsrc"
	"github.com/mrz1836/slip39/internal/secure"
	"github.com/mrz1836/slip39/internal/shamir"
)

const (
	// MaxShareCount is the largest number of members or groups this
	// implementation will split or accept.
	MaxShareCount = 16

	// DefaultIterationExponent is the default of the CLI's
	// --iteration-exponent flag. GenerateMnemonics always uses the
	// exponent it is given, 0 included.
	DefaultIterationExponent = 1
)

// GroupSpec describes one group's (memberThreshold, memberCount) pair, the
// per-group input to GenerateMnemonics and SplitEMS.
type GroupSpec struct {
	MemberThreshold int
	MemberCount     int
}

// GenerateMnemonics splits masterSecret into groupCount mnemonic sets (one
// []string per group) such that any groupThreshold groups, each
// contributing at least its MemberThreshold members, reconstruct the
// secret. passphrase may be nil, a string, or []byte; it must be printable
// ASCII. The identifier is always chosen at random.
func GenerateMnemonics(groupThreshold int, groups []GroupSpec, masterSecret []byte, pass any, extendable bool, iterationExponent int) ([][]string, error) {
	passBytes, err := passphrase.Normalize(pass)
	if err != nil {
		return nil, err
	}
	if err := passphrase.RequirePrintableASCII(passBytes); err != nil {
		return nil, err
	}
	defer secure.Zero(passBytes)

	identifier, err := randomIdentifier()
	if err != nil {
		return nil, err
	}

	masterEMS, err := ems.FromMasterSecret(masterSecret, passBytes, identifier, extendable, iterationExponent)
	if err != nil {
		return nil, err
	}
	defer masterEMS.Zero()

	groupShares, err := SplitEMS(groupThreshold, groups, masterEMS)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(groupShares))
	for i, shares := range groupShares {
		words := make([]string, len(shares))
		for j, sh := range shares {
			m, mnemonicErr := sh.Mnemonic()
			if mnemonicErr != nil {
				return nil, mnemonicErr
			}
			words[j] = m
		}
		out[i] = words
	}
	return out, nil
}

// CombineMnemonics parses mnemonics, groups them by their shared
// coordinates, recovers the encrypted master secret, and decrypts it
// under passphrase.
func CombineMnemonics(mnemonics []string, pass any) ([]byte, error) {
	groups, err := DecodeMnemonics(mnemonics)
	if err != nil {
		return nil, err
	}

	recovered, err := RecoverEMS(groups)
	if err != nil {
		return nil, err
	}
	defer recovered.Zero()

	passBytes, err := passphrase.Normalize(pass)
	if err != nil {
		return nil, err
	}
	defer secure.Zero(passBytes)

	return recovered.Decrypt(passBytes), nil
}

// SplitEMS splits an already-encrypted master secret into per-group
// mnemonic.Share slices (spec.md §4.7).
func SplitEMS(groupThreshold int, groups []GroupSpec, e *ems.EMS) ([][]mnemonic.Share, error) {
	if 8*len(e.Ciphertext) < 128 {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidParams)
	}
	if groupThreshold < 1 || groupThreshold > len(groups) {
		return nil, fmt.Errorf("%w: group threshold must be between 1 and the number of groups", ErrInvalidParams)
	}
	if len(groups) > MaxShareCount {
		return nil, fmt.Errorf("%w: too many groups", ErrInvalidParams)
	}
	for _, g := range groups {
		if g.MemberThreshold == 1 && g.MemberCount > 1 {
			return nil, fmt.Errorf("%w: a 1-of-N group with N>1 is not allowed", ErrInvalidParams)
		}
		if g.MemberThreshold < 1 || g.MemberCount < 1 || g.MemberThreshold > g.MemberCount || g.MemberCount > MaxShareCount {
			return nil, fmt.Errorf("%w: invalid member threshold/count", ErrInvalidParams)
		}
	}

	groupRows, err := shamir.Split(groupThreshold, len(groups), e.Ciphertext)
	if err != nil {
		return nil, err
	}

	out := make([][]mnemonic.Share, len(groups))
	for i, spec := range groups {
		memberRows, splitErr := shamir.Split(spec.MemberThreshold, spec.MemberCount, groupRows[i].Data)
		secure.Zero(groupRows[i].Data)
		if splitErr != nil {
			return nil, splitErr
		}

		shares := make([]mnemonic.Share, len(memberRows))
		for j, row := range memberRows {
			shares[j] = mnemonic.Share{
				Identifier:        e.Identifier,
				Extendable:        e.Extendable,
				IterationExponent: e.IterationExponent,
				GroupIndex:        i,
				GroupThreshold:    groupThreshold,
				GroupCount:        len(groups),
				MemberIndex:       int(row.X),
				MemberThreshold:   spec.MemberThreshold,
				Value:             row.Data,
			}
		}
		out[i] = shares
	}
	return out, nil
}

// RecoverEMS reverses SplitEMS: groups maps a groupIndex to exactly the
// shares belonging to that group. len(groups) must equal the common
// groupThreshold, and every group must carry exactly its memberThreshold
// shares.
func RecoverEMS(groups map[int][]mnemonic.Share) (*ems.EMS, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: no shares supplied", ErrInvalidParams)
	}

	common, err := commonParameters(groups)
	if err != nil {
		return nil, err
	}

	if len(groups) != common.GroupThreshold {
		return nil, fmt.Errorf("%w: need exactly %d groups, got %d", ErrInvalidParams, common.GroupThreshold, len(groups))
	}

	groupRows := make([]shamir.Row, 0, len(groups))
	for groupIndex, shares := range groups {
		if len(shares) == 0 {
			return nil, fmt.Errorf("%w: group %d has no shares", ErrInvalidParams, groupIndex)
		}
		if err := validateGroupParameters(groupIndex, shares); err != nil {
			return nil, err
		}
		if len(shares) != shares[0].MemberThreshold {
			return nil, fmt.Errorf("%w: group %d has %d members, needs exactly %d", ErrInvalidParams, groupIndex, len(shares), shares[0].MemberThreshold)
		}

		memberRows := make([]shamir.Row, len(shares))
		for i, sh := range shares {
			memberRows[i] = shamir.Row{X: byte(sh.MemberIndex), Data: sh.Value}
		}

		groupSecret, recoverErr := shamir.Recover(shares[0].MemberThreshold, memberRows)
		if recoverErr != nil {
			return nil, recoverErr
		}
		groupRows = append(groupRows, shamir.Row{X: byte(groupIndex), Data: groupSecret})
	}

	ciphertext, err := shamir.Recover(common.GroupThreshold, groupRows)
	for _, r := range groupRows {
		secure.Zero(r.Data)
	}
	if err != nil {
		return nil, err
	}

	return &ems.EMS{
		Identifier:        common.Identifier,
		Extendable:        common.Extendable,
		IterationExponent: common.IterationExponent,
		Ciphertext:        ciphertext,
	}, nil
}

// DecodeMnemonics parses a flat list of mnemonic strings into Shares
// bucketed by groupIndex, validating that every share agrees on the
// parameters shared across the whole set.
func DecodeMnemonics(mnemonics []string) (map[int][]mnemonic.Share, error) {
	if len(mnemonics) == 0 {
		return nil, fmt.Errorf("%w: no mnemonics supplied", mnemonic.ErrInvalidShareParams)
	}

	shares := make([]mnemonic.Share, len(mnemonics))
	for i, m := range mnemonics {
		sh, err := mnemonic.FromMnemonic(m)
		if err != nil {
			return nil, err
		}
		shares[i] = sh
	}

	groups := make(map[int][]mnemonic.Share)
	for _, sh := range shares {
		groups[sh.GroupIndex] = append(groups[sh.GroupIndex], sh)
	}

	if _, err := commonParameters(groups); err != nil {
		return nil, err
	}
	for idx, members := range groups {
		if err := validateGroupParameters(idx, members); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// commonParameters extracts the shared bundle-level parameters and
// confirms every share agrees on them.
func commonParameters(groups map[int][]mnemonic.Share) (mnemonic.Share, error) {
	var first mnemonic.Share
	seen := false

	for _, members := range groups {
		for _, sh := range members {
			if !seen {
				first = sh
				seen = true
				continue
			}
			if sh.Identifier != first.Identifier ||
				sh.Extendable != first.Extendable ||
				sh.IterationExponent != first.IterationExponent ||
				sh.GroupThreshold != first.GroupThreshold ||
				sh.GroupCount != first.GroupCount {
				return mnemonic.Share{}, fmt.Errorf("%w: mnemonics do not belong to the same set", mnemonic.ErrInvalidShareParams)
			}
		}
	}
	if !seen {
		return mnemonic.Share{}, fmt.Errorf("%w: no shares supplied", mnemonic.ErrInvalidShareParams)
	}
	return first, nil
}

// validateGroupParameters confirms every member of one group agrees on
// the group-level parameters and carries a distinct member index.
func validateGroupParameters(groupIndex int, members []mnemonic.Share) error {
	seenIndex := make(map[int]bool, len(members))
	first := members[0]
	for _, sh := range members {
		if sh.GroupIndex != first.GroupIndex || sh.MemberThreshold != first.MemberThreshold {
			return fmt.Errorf("%w: group %d has inconsistent parameters", mnemonic.ErrInvalidShareParams, groupIndex)
		}
		if seenIndex[sh.MemberIndex] {
			return fmt.Errorf("%w: group %d has duplicate member index %d", mnemonic.ErrInvalidShareParams, groupIndex, sh.MemberIndex)
		}
		seenIndex[sh.MemberIndex] = true
	}
	return nil
}

func randomIdentifier() (uint16, error) {
	buf, err := randsrc.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf) & 0x7FFF, nil
}
