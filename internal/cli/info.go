package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/mnemonic"
	"github.com/mrz1836/slip39/internal/output"
	"github.com/mrz1836/slip39/internal/recovery"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var infoMnemonics []string

// infoCmd reports group prefixes and recovery status for a set of
// shares, without attempting to recover the master secret.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var infoCmd = &cobra.Command{
	Use:     "info",
	GroupID: groupCore,
	Short:   "Show group status for a set of SLIP-39 mnemonic shares",
	Long: `Info decodes the shares given with --mnemonic and reports, for every
group they belong to, how many members have been entered against that
group's threshold, plus the group's three-word identifying prefix -- a
stable hint useful when prompting for more shares interactively.

It never attempts to recover the master secret; combine does that.`,
	Example: `  slip39 info --mnemonic "academic acid acrobat..." --mnemonic "academic acid beard..."`,
	RunE:    runInfo,
}

func init() {
	infoCmd.Flags().StringArrayVar(&infoMnemonics, "mnemonic", nil, "a single mnemonic share (repeatable)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	shares, err := collectShares(infoMnemonics)
	if err != nil {
		return err
	}

	cctx := GetCmdContext(cmd)
	rate, burst := defaultRecoveryLimits(cctx)

	groups, err := decodeShareLines(shares)
	if err != nil {
		return err
	}

	state := recovery.New(rate, burst)
	groupCount := 0
	groupThreshold := 0
	for _, members := range groups {
		for _, sh := range members {
			if err := state.AddShare(sh); err != nil {
				return slip39err.Wrap(err, "adding share")
			}
			groupCount = sh.GroupCount
			groupThreshold = sh.GroupThreshold
		}
	}

	return printGroupStatus(cmd, state, groupCount, groupThreshold)
}

func defaultRecoveryLimits(cctx *CommandContext) (rate float64, burst int) {
	if cctx == nil || cctx.Cfg == nil {
		return 0, 0
	}
	r := cctx.Cfg.GetRecovery()
	return r.RateLimitPerSecond, r.RateLimitBurst
}

func decodeShareLines(lines []string) (map[int][]mnemonic.Share, error) {
	shares := make([]mnemonic.Share, 0, len(lines))
	for _, line := range lines {
		sh, err := mnemonic.FromMnemonic(line)
		if err != nil {
			return nil, slip39err.Wrap(err, "decoding share")
		}
		shares = append(shares, sh)
	}

	groups := make(map[int][]mnemonic.Share)
	for _, sh := range shares {
		groups[sh.GroupIndex] = append(groups[sh.GroupIndex], sh)
	}
	return groups, nil
}

func printGroupStatus(cmd *cobra.Command, state *recovery.State, groupCount, groupThreshold int) error {
	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		return printGroupStatusJSON(cmd, state, groupCount, groupThreshold)
	}

	cmd.Printf("Group threshold: %d of %d groups\n", groupThreshold, groupCount)

	table := output.NewTable("GROUP", "MEMBERS", "STATUS", "PREFIX")
	for i := 0; i < groupCount; i++ {
		entered, threshold := state.GroupStatus(i)
		prefix, err := state.GroupPrefix(i)
		if err != nil {
			return slip39err.Wrap(err, "computing group prefix")
		}
		if threshold < 0 {
			table.AddRow(fmt.Sprintf("%d", i+1), "--", "no shares yet", prefix)
			continue
		}
		status := "incomplete"
		if state.GroupIsComplete(i) {
			status = "complete"
		}
		table.AddRow(fmt.Sprintf("%d", i+1), fmt.Sprintf("%d/%d", entered, threshold), status, prefix)
	}
	if err := table.Render(cmd.OutOrStdout()); err != nil {
		return slip39err.Wrap(err, "rendering group status")
	}

	if state.IsComplete() {
		cmd.Println("Recovery is ready: run `slip39 combine` with the same shares.")
	} else {
		cmd.Println("Recovery is not yet ready: more shares are needed.")
	}
	return nil
}

type groupStatusJSON struct {
	Index     int    `json:"index"`
	Entered   int    `json:"entered"`
	Threshold int    `json:"threshold"`
	Complete  bool   `json:"complete"`
	Prefix    string `json:"prefix"`
}

type infoJSON struct {
	GroupThreshold int               `json:"group_threshold"`
	GroupCount     int               `json:"group_count"`
	Complete       bool              `json:"complete"`
	Groups         []groupStatusJSON `json:"groups"`
}

func printGroupStatusJSON(cmd *cobra.Command, state *recovery.State, groupCount, groupThreshold int) error {
	result := infoJSON{GroupThreshold: groupThreshold, GroupCount: groupCount, Complete: state.IsComplete()}
	for i := 0; i < groupCount; i++ {
		entered, threshold := state.GroupStatus(i)
		prefix, err := state.GroupPrefix(i)
		if err != nil {
			return slip39err.Wrap(err, "computing group prefix")
		}
		result.Groups = append(result.Groups, groupStatusJSON{
			Index:     i,
			Entered:   entered,
			Threshold: threshold,
			Complete:  state.GroupIsComplete(i),
			Prefix:    prefix,
		})
	}

	formatter := Formatter()
	return formatter.Print(result)
}
