package cli

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/output"
	"github.com/mrz1836/slip39/internal/secure"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
	"github.com/mrz1836/slip39/pkg/slip39"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	genGroups         []string
	genGroupThreshold int
	genStrengthBits   int
	genSecretHex      string
	genExtendable     bool
	genIterationExp   int
	genNoPassphrase   bool
)

// generateCmd splits a master secret into SLIP-39 mnemonic shares.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var generateCmd = &cobra.Command{
	Use:     "generate",
	GroupID: groupCore,
	Short:   "Split a master secret into SLIP-39 mnemonic shares",
	Long: `Generate splits a master secret into one or more groups of SLIP-39
mnemonic shares.

Each --group flag describes one group as memberThreshold:memberCount, e.g.
"2:3" means any 2 of that group's 3 shares reconstruct the group's
contribution. --group-threshold sets how many groups must each contribute
before the master secret can be recovered.

If --secret-hex is not given, a random secret of --strength bits is
generated. Provide a passphrase interactively unless --no-passphrase is
set; an empty passphrase is equivalent to no passphrase at all.`,
	Example: `  slip39 generate --group-threshold 1 --group 2:3
  slip39 generate --group 1:1 --group 2:3 --group-threshold 2 --strength 256
  slip39 generate --secret-hex 0123...cdef --no-passphrase`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVar(&genGroups, "group", nil, "group as memberThreshold:memberCount (repeatable)")
	generateCmd.Flags().IntVar(&genGroupThreshold, "group-threshold", 1, "number of groups required to recover the secret")
	generateCmd.Flags().IntVar(&genStrengthBits, "strength", 128, "bit length of a randomly generated secret (128 or 256)")
	generateCmd.Flags().StringVar(&genSecretHex, "secret-hex", "", "master secret as a hex string, instead of generating one")
	generateCmd.Flags().BoolVar(&genExtendable, "extendable", true, "leave the identifier out of the passphrase encryption, so later share sets for the same secret and passphrase decrypt alike")
	generateCmd.Flags().IntVar(&genIterationExp, "iteration-exponent", slip39.DefaultIterationExponent, "PBKDF2 iteration exponent")
	generateCmd.Flags().BoolVar(&genNoPassphrase, "no-passphrase", false, "skip the passphrase prompt and use no passphrase")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cctx := GetCmdContext(cmd)

	groups, err := parseGroupSpecs(genGroups)
	if err != nil {
		return err
	}

	masterSecret, err := resolveMasterSecret()
	if err != nil {
		return err
	}
	defer secure.Zero(masterSecret)

	var pass string
	if !genNoPassphrase {
		pass, err = promptPassphraseFn()
		if err != nil {
			return err
		}
	}

	mnemonics, err := slip39.GenerateMnemonics(genGroupThreshold, groups, masterSecret, pass, genExtendable, genIterationExp)
	if err != nil {
		return slip39err.Wrap(err, "generating mnemonics")
	}

	if cctx != nil && cctx.Log != nil {
		cctx.Log.Debug("generated %d groups, threshold %d", len(mnemonics), genGroupThreshold)
	}

	return printGeneratedMnemonics(cmd, genGroupThreshold, mnemonics)
}

func printGeneratedMnemonics(cmd *cobra.Command, groupThreshold int, groups [][]string) error {
	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		return printGeneratedJSON(cmd, groupThreshold, groups)
	}

	for i, words := range groups {
		cmd.Printf("Group %d (%d shares):\n", i+1, len(words))
		for j, w := range words {
			cmd.Printf("  [%d] %s\n", j+1, w)
		}
		cmd.Println()
	}
	output.Success(fmt.Sprintf("generated %d group(s), threshold %d", len(groups), groupThreshold))
	output.Warn("store each share somewhere separate; anyone holding enough of them can recover the secret")
	return nil
}

// bundleJSON mirrors internal/backup.Bundle's JSON field names, so
// `slip39 generate -o json` output has the same shape that
// `slip39 backup-import -o json` prints.
type bundleJSON struct {
	GroupThreshold int        `json:"group_threshold"`
	Groups         [][]string `json:"groups"`
	CreatedAtUnix  int64      `json:"created_at_unix"`
}

func printGeneratedJSON(cmd *cobra.Command, groupThreshold int, groups [][]string) error {
	b := bundleJSON{GroupThreshold: groupThreshold, Groups: groups}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return slip39err.Wrap(err, "encoding result")
	}
	cmd.Println(string(data))
	return nil
}

func resolveMasterSecret() ([]byte, error) {
	if genSecretHex != "" {
		secretBytes, err := hex.DecodeString(strings.TrimSpace(genSecretHex))
		if err != nil {
			return nil, slip39err.WithSuggestion(
				slip39err.ErrInvalidInput,
				"secret-hex must be a valid hex string",
			)
		}
		return secretBytes, nil
	}

	if genStrengthBits%8 != 0 || genStrengthBits < 128 {
		return nil, slip39err.WithSuggestion(
			slip39err.ErrInvalidInput,
			"strength must be a multiple of 8 and at least 128",
		)
	}

	secretBytes := make([]byte, genStrengthBits/8)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generating random secret: %w", err)
	}
	return secretBytes, nil
}

// parseGroupSpecs parses "threshold:count" strings into GroupSpecs.
func parseGroupSpecs(raw []string) ([]slip39.GroupSpec, error) {
	if len(raw) == 0 {
		return nil, slip39err.WithSuggestion(
			slip39err.ErrInvalidInput,
			"at least one --group memberThreshold:memberCount is required",
		)
	}

	groups := make([]slip39.GroupSpec, 0, len(raw))
	for _, spec := range raw {
		parts := strings.Split(spec, ":")
		if len(parts) != 2 {
			return nil, slip39err.WithSuggestion(
				slip39err.ErrInvalidInput,
				fmt.Sprintf("group %q must be formatted as memberThreshold:memberCount", spec),
			)
		}
		threshold, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("group %q: invalid threshold", spec))
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, slip39err.WithSuggestion(slip39err.ErrInvalidInput, fmt.Sprintf("group %q: invalid count", spec))
		}
		groups = append(groups, slip39.GroupSpec{MemberThreshold: threshold, MemberCount: count})
	}
	return groups, nil
}
