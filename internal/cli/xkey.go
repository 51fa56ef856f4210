package cli

import (
	"encoding/hex"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/secure"
	"github.com/mrz1836/slip39/internal/xkeyadapter"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
	"github.com/mrz1836/slip39/pkg/slip39"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	xkeySecretHex  string
	xkeyMnemonics  []string
	xkeyNoPassword bool
)

// xkeyCmd derives a BIP32 extended key from a recovered master secret.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var xkeyCmd = &cobra.Command{
	Use:     "xkey",
	GroupID: groupCore,
	Short:   "Derive a BIP32 extended key from a master secret",
	Long: `Xkey takes a master secret, either given directly with --secret-hex or
recovered from SLIP-39 shares given with --mnemonic, and derives the BIP32
master extended private key and its corresponding public key.

This demonstrates the boundary between SLIP-39 recovery and downstream
key derivation; slip39 itself never derives child keys.`,
	Example: `  slip39 xkey --secret-hex 0123456789abcdef0123456789abcdef
  slip39 xkey --mnemonic "academic acid acrobat..." --mnemonic "academic acid beard..."`,
	RunE: runXkey,
}

func init() {
	xkeyCmd.Flags().StringVar(&xkeySecretHex, "secret-hex", "", "master secret as a hex string")
	xkeyCmd.Flags().StringArrayVar(&xkeyMnemonics, "mnemonic", nil, "a single mnemonic share (repeatable)")
	xkeyCmd.Flags().BoolVar(&xkeyNoPassword, "no-passphrase", false, "skip the passphrase prompt when recovering from shares")
	rootCmd.AddCommand(xkeyCmd)
}

func runXkey(cmd *cobra.Command, _ []string) error {
	masterSecret, err := xkeyResolveSecret()
	if err != nil {
		return err
	}
	defer secure.Zero(masterSecret)

	key, err := xkeyadapter.DeriveRoot(masterSecret)
	if err != nil {
		return slip39err.Wrap(err, "deriving extended key")
	}

	xprv := key.B58Serialize()
	xpub := key.PublicKey().B58Serialize()

	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		return formatter.Print(xkeyJSON{ExtendedPrivateKey: xprv, ExtendedPublicKey: xpub})
	}
	cmd.Printf("Extended private key: %s\n", xprv)
	cmd.Printf("Extended public key:  %s\n", xpub)
	return nil
}

type xkeyJSON struct {
	ExtendedPrivateKey string `json:"extended_private_key"`
	ExtendedPublicKey  string `json:"extended_public_key"`
}

func xkeyResolveSecret() ([]byte, error) {
	if xkeySecretHex != "" {
		secretBytes, err := hex.DecodeString(strings.TrimSpace(xkeySecretHex))
		if err != nil {
			return nil, slip39err.WithSuggestion(slip39err.ErrInvalidInput, "secret-hex must be a valid hex string")
		}
		return secretBytes, nil
	}

	shares, err := collectShares(xkeyMnemonics)
	if err != nil {
		return nil, err
	}

	var pass string
	if !xkeyNoPassword {
		pass, err = promptPassphraseFn()
		if err != nil {
			return nil, err
		}
	}

	secretBytes, err := slip39.CombineMnemonics(shares, pass)
	if err != nil {
		return nil, slip39err.Wrap(err, "combining shares")
	}
	return secretBytes, nil
}
