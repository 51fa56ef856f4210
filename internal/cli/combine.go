package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	slip39err "github.com/mrz1836/slip39/pkg/errors"
	"github.com/mrz1836/slip39/pkg/slip39"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	combineMnemonics    []string
	combineNoPassphrase bool
)

// combineCmd recovers the master secret from a qualifying set of shares.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var combineCmd = &cobra.Command{
	Use:     "combine",
	GroupID: groupCore,
	Short:   "Recover the master secret from SLIP-39 mnemonic shares",
	Long: `Combine parses a set of SLIP-39 mnemonic shares, checks that they
reconstruct a consistent master secret, and prints it as hex.

Shares may be supplied with repeated --mnemonic flags; if none are given,
combine reads them interactively, one per line, until a blank line.`,
	Example: `  slip39 combine --mnemonic "academic acid acrobat..." --mnemonic "academic acid beard..."
  slip39 combine`,
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringArrayVar(&combineMnemonics, "mnemonic", nil, "a single mnemonic share (repeatable)")
	combineCmd.Flags().BoolVar(&combineNoPassphrase, "no-passphrase", false, "skip the passphrase prompt and use no passphrase")
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, _ []string) error {
	shares, err := collectShares(combineMnemonics)
	if err != nil {
		return err
	}

	var pass string
	if !combineNoPassphrase {
		pass, err = promptPassphraseFn()
		if err != nil {
			return err
		}
	}

	secretBytes, err := slip39.CombineMnemonics(shares, pass)
	if err != nil {
		return slip39err.Wrap(err, "combining shares")
	}

	formatter := Formatter()
	secretHex := hex.EncodeToString(secretBytes)
	if formatter != nil && formatter.IsJSON() {
		cmd.Printf("{\n  \"master_secret_hex\": %q\n}\n", secretHex)
		return nil
	}
	cmd.Printf("Master secret: %s\n", secretHex)
	return nil
}

// collectShares returns flagShares if non-empty, otherwise prompts
// interactively for shares.
func collectShares(flagShares []string) ([]string, error) {
	if len(flagShares) > 0 {
		return flagShares, nil
	}
	return promptShares()
}
