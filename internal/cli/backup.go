package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/slip39/internal/backup"
	"github.com/mrz1836/slip39/internal/output"
	"github.com/mrz1836/slip39/internal/secure"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	backupExportGroups    []string
	backupExportThreshold int
	backupExportDir       string

	backupImportFile string

	backupListDir string
)

// backupExportCmd bundles a full generated mnemonic set into a single
// passphrase-encrypted file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var backupExportCmd = &cobra.Command{
	Use:     "backup-export",
	GroupID: groupBackup,
	Short:   "Bundle a generated mnemonic set into an encrypted backup file",
	Long: `Backup-export takes every group's share mnemonics from a single
generate run and bundles them into one passphrase-encrypted file, so the
whole set can be stored or transmitted as a single artifact independent
of the SLIP-39 passphrase used to encrypt the master secret itself.

Pass each group's shares with a repeated --group flag, one comma-
separated list of mnemonics per group, in the same order generate
produced them. The backup passphrase is prompted for interactively.`,
	Example: `  slip39 generate --group 2:3 --group-threshold 1 -o json
  slip39 backup-export --group-threshold 1 --group "w1 w2 w3...,w1 w2 w3..."`,
	RunE: runBackupExport,
}

// backupImportCmd decrypts a backup file produced by backup-export and
// prints the group mnemonics it contains.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var backupImportCmd = &cobra.Command{
	Use:     "backup-import",
	GroupID: groupBackup,
	Short:   "Decrypt a backup file and print its mnemonic groups",
	Long: `Backup-import decrypts a file written by backup-export and prints the
group threshold and share mnemonics it contains, prompting for the
backup passphrase interactively.`,
	Example: `  slip39 backup-import --file ~/.slip39/backups/slip39-1700000000.slip39`,
	RunE:    runBackupImport,
}

// backupListCmd lists the backup files present under a directory.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var backupListCmd = &cobra.Command{
	Use:     "backup-list",
	GroupID: groupBackup,
	Short:   "List backup files",
	Long:    `Backup-list prints the backup file names present under the backup directory.`,
	Example: `  slip39 backup-list --dir ~/.slip39/backups`,
	RunE:    runBackupList,
}

func init() {
	backupExportCmd.Flags().StringArrayVar(&backupExportGroups, "group", nil,
		"comma-separated share mnemonics for one group, quoted as a single argument (repeatable)")
	backupExportCmd.Flags().IntVar(&backupExportThreshold, "group-threshold", 1, "number of groups required to recover the secret")
	backupExportCmd.Flags().StringVar(&backupExportDir, "dir", "", "directory to write the backup file under (default: <home>/backups)")

	backupImportCmd.Flags().StringVar(&backupImportFile, "file", "", "path to the backup file to decrypt (required)")
	_ = backupImportCmd.MarkFlagRequired("file")

	backupListCmd.Flags().StringVar(&backupListDir, "dir", "", "directory to list backup files from (default: <home>/backups)")

	rootCmd.AddCommand(backupExportCmd, backupImportCmd, backupListCmd)
}

func runBackupExport(cmd *cobra.Command, _ []string) error {
	if len(backupExportGroups) == 0 {
		return slip39err.WithSuggestion(slip39err.ErrInvalidInput, "at least one --group is required")
	}

	groups := make([][]string, len(backupExportGroups))
	for i, g := range backupExportGroups {
		groups[i] = splitCommaList(g)
	}

	passphrase, err := promptNewBackupPassphrase()
	if err != nil {
		return err
	}
	defer secure.Zero(passphrase)

	b := backup.Bundle{
		GroupThreshold: backupExportThreshold,
		Groups:         groups,
		CreatedAtUnix:  time.Now().Unix(),
	}

	dir := backupDir(cmd, backupExportDir)
	path, err := backup.WriteFile(dir, b, string(passphrase))
	if err != nil {
		return slip39err.Wrap(err, "writing backup file")
	}

	cmd.Printf("Backup written to %s\n", path)
	output.Success("backup encrypted and written successfully")
	return nil
}

func runBackupImport(cmd *cobra.Command, _ []string) error {
	passphrase, err := promptPasswordFn("Enter backup passphrase: ")
	if err != nil {
		return err
	}
	defer secure.Zero(passphrase)

	b, err := backup.ReadFile(backupImportFile, string(passphrase))
	if err != nil {
		return slip39err.Wrap(err, "reading backup file")
	}

	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		out := bundleJSON{GroupThreshold: b.GroupThreshold, Groups: b.Groups, CreatedAtUnix: b.CreatedAtUnix}
		data, marshalErr := json.MarshalIndent(out, "", "  ")
		if marshalErr != nil {
			return slip39err.Wrap(marshalErr, "encoding bundle")
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Group threshold: %d of %d groups\n", b.GroupThreshold, len(b.Groups))
	for i, group := range b.Groups {
		cmd.Printf("Group %d (%d shares):\n", i+1, len(group))
		for j, share := range group {
			cmd.Printf("  [%d] %s\n", j+1, share)
		}
	}
	return nil
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	dir := backupDir(cmd, backupListDir)
	names, err := backup.List(dir)
	if err != nil {
		return slip39err.Wrap(err, "listing backups")
	}

	formatter := Formatter()
	if formatter != nil && formatter.IsJSON() {
		return formatter.Print(names)
	}

	if len(names) == 0 {
		cmd.Println("No backup files found.")
		return nil
	}
	for _, n := range names {
		cmd.Println(n)
	}
	return nil
}

// backupDir resolves the directory to use for backup files: an explicit
// --dir flag wins, otherwise <home>/backups.
func backupDir(cmd *cobra.Command, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cctx := GetCmdContext(cmd); cctx != nil && cctx.Cfg != nil {
		return filepath.Join(cctx.Cfg.GetHome(), "backups")
	}
	return "backups"
}

func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
