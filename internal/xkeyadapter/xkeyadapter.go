// Package xkeyadapter gives a concrete body to the BIP32 boundary spec.md
// describes only by its interface: turning a recovered SLIP-39 master
// secret into an extended private key. It carries no SLIP-39 semantics
// of its own and the core library never imports it.
package xkeyadapter

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
)

// DeriveRoot derives the BIP32 master extended private key from a
// recovered master secret. Callers derive any child paths themselves
// using the returned key's Child/PublicKey/Serialize methods.
func DeriveRoot(masterSecret []byte) (*bip32.Key, error) {
	key, err := bip32.NewMasterKey(masterSecret)
	if err != nil {
		return nil, fmt.Errorf("deriving BIP32 master key: %w", err)
	}
	return key, nil
}
