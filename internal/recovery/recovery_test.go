package recovery

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/mrz1836/slip39/internal/mnemonic"
	"github.com/mrz1836/slip39/pkg/slip39"
)

func randomSecret(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	return b
}

func sharesFor(t *testing.T, groups []slip39.GroupSpec, groupThreshold int, secret []byte) [][]mnemonic.Share {
	t.Helper()

	sets, err := slip39.GenerateMnemonics(groupThreshold, groups, secret, nil, true, 0)
	if err != nil {
		t.Fatalf("GenerateMnemonics: %v", err)
	}

	out := make([][]mnemonic.Share, len(sets))
	for i, words := range sets {
		shares := make([]mnemonic.Share, len(words))
		for j, w := range words {
			sh, parseErr := mnemonic.FromMnemonic(w)
			if parseErr != nil {
				t.Fatalf("FromMnemonic: %v", parseErr)
			}
			shares[j] = sh
		}
		out[i] = shares
	}
	return out
}

func TestStateRecoverSingleGroup(t *testing.T) {
	t.Parallel()

	secret := randomSecret(t, 16)
	groups := []slip39.GroupSpec{{MemberThreshold: 3, MemberCount: 5}}
	shares := sharesFor(t, groups, 1, secret)

	st := New(0, 0)
	for _, sh := range shares[0][:2] {
		if err := st.AddShare(sh); err != nil {
			t.Fatalf("AddShare: %v", err)
		}
	}
	if st.IsComplete() {
		t.Fatal("recovery reported complete with too few shares")
	}

	if err := st.AddShare(shares[0][2]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if !st.IsComplete() {
		t.Fatal("recovery did not report complete at threshold")
	}

	got, err := st.Recover(nil)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if string(got) != string(secret) {
		t.Fatal("recovered secret mismatch")
	}
}

func TestStateAddShareDuplicateCoalesces(t *testing.T) {
	t.Parallel()

	secret := randomSecret(t, 16)
	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, secret)

	st := New(0, 0)
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare duplicate: %v", err)
	}

	entered, threshold := st.GroupStatus(0)
	if entered != 1 || threshold != 2 {
		t.Fatalf("GroupStatus() = (%d, %d), want (1, 2)", entered, threshold)
	}
}

func TestStateAddShareRejectsForeignSet(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	sharesA := sharesFor(t, groups, 1, randomSecret(t, 16))
	sharesB := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(0, 0)
	if err := st.AddShare(sharesA[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if err := st.AddShare(sharesB[0][0]); !errors.Is(err, ErrParameterMismatch) {
		t.Fatalf("AddShare() error = %v, want ErrParameterMismatch", err)
	}
}

func TestStateRecoverIncomplete(t *testing.T) {
	t.Parallel()

	secret := randomSecret(t, 16)
	groups := []slip39.GroupSpec{{MemberThreshold: 3, MemberCount: 5}}
	shares := sharesFor(t, groups, 1, secret)

	st := New(0, 0)
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if _, err := st.Recover(nil); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Recover() error = %v, want ErrIncomplete", err)
	}
}

func TestStateRateLimiting(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(1, 1)
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("first AddShare: %v", err)
	}
	if err := st.AddShare(shares[0][1]); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("AddShare() error = %v, want ErrRateLimited", err)
	}
}

func TestGroupPrefixBeforeAndAfterShares(t *testing.T) {
	t.Parallel()

	st := New(0, 0)
	prefix, err := st.GroupPrefix(0)
	if err != nil {
		t.Fatalf("GroupPrefix (no parameters): %v", err)
	}
	if prefix == "" {
		t.Fatal("expected a non-empty placeholder prefix")
	}

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, randomSecret(t, 16))
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}

	prefix2, err := st.GroupPrefix(0)
	if err != nil {
		t.Fatalf("GroupPrefix (with parameters): %v", err)
	}
	if prefix2 == "" {
		t.Fatal("expected a non-empty prefix")
	}
}

func TestHasReportsValueEquality(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(0, 0)
	if st.Has(shares[0][0]) {
		t.Fatal("Has() true before AddShare")
	}
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}
	if !st.Has(shares[0][0]) {
		t.Fatal("Has() false after AddShare")
	}
	if st.Has(shares[0][1]) {
		t.Fatal("Has() true for a share never added")
	}
}

func TestMatchesAgreesWithAddShareBeforeCommitting(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	sharesA := sharesFor(t, groups, 1, randomSecret(t, 16))
	sharesB := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(0, 0)
	if !st.Matches(sharesA[0][0]) {
		t.Fatal("Matches() false against an empty State")
	}

	if err := st.AddShare(sharesA[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}

	if !st.Matches(sharesA[0][1]) {
		t.Fatal("Matches() false for a share belonging to the set in progress")
	}
	if st.Matches(sharesB[0][0]) {
		t.Fatal("Matches() true for a share from a foreign set")
	}

	entered, threshold := st.GroupStatus(0)
	if entered != 1 || threshold != 2 {
		t.Fatalf("Matches() mutated state: GroupStatus() = (%d, %d), want (1, 2)", entered, threshold)
	}
	if st.Has(sharesA[0][1]) {
		t.Fatal("Matches() inserted a share it only checked")
	}
}

func TestMatchesRejectsGroupThresholdMismatch(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(0, 0)
	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare: %v", err)
	}

	conflicting := shares[0][1]
	conflicting.MemberThreshold++
	if st.Matches(conflicting) {
		t.Fatal("Matches() true for a share with a conflicting member threshold")
	}
}

func TestMatchesDoesNotConsumeRateLimit(t *testing.T) {
	t.Parallel()

	groups := []slip39.GroupSpec{{MemberThreshold: 2, MemberCount: 3}}
	shares := sharesFor(t, groups, 1, randomSecret(t, 16))

	st := New(1, 1)
	for i := 0; i < 5; i++ {
		if !st.Matches(shares[0][0]) {
			t.Fatal("Matches() false for a compatible share")
		}
	}

	if err := st.AddShare(shares[0][0]); err != nil {
		t.Fatalf("AddShare after repeated Matches calls: %v", err)
	}
}
