package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/mrz1836/slip39/internal/secure"
	slip39err "github.com/mrz1836/slip39/pkg/errors"
)

// promptPasswordFn/promptPassphraseFn are package vars so tests can stub
// interactive input without touching the terminal.
//
//nolint:gochecknoglobals // indirection point for testing terminal prompts
var (
	promptPasswordFn   = promptPassword
	promptPassphraseFn = promptPassphrase
)

// promptPassword prompts for a password/passphrase with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// promptNewBackupPassphrase prompts for a new backup passphrase with
// confirmation, used by backup-export.
func promptNewBackupPassphrase() ([]byte, error) {
	password, err := promptPasswordFn("Enter backup passphrase: ")
	if err != nil {
		return nil, err
	}

	if len(password) < 8 {
		secure.Zero(password)
		return nil, slip39err.WithSuggestion(
			slip39err.ErrInvalidInput,
			"passphrase must be at least 8 characters",
		)
	}

	confirm, err := promptPasswordFn("Confirm backup passphrase: ")
	if err != nil {
		secure.Zero(password)
		return nil, err
	}
	defer secure.Zero(confirm)

	if string(password) != string(confirm) {
		secure.Zero(password)
		return nil, slip39err.WithSuggestion(
			slip39err.ErrInvalidInput,
			"passphrases do not match",
		)
	}
	return password, nil
}

// promptPassphrase prompts for an optional SLIP-39 encryption passphrase,
// confirming it once.
func promptPassphrase() (string, error) {
	outln(os.Stderr, "SLIP-39 passphrase (optional, leave empty for none):")
	outln(os.Stderr, "WARNING: if you lose this passphrase, the secret cannot be recovered.")

	passphrase, err := promptPasswordFn("Enter passphrase: ")
	if err != nil {
		return "", err
	}
	if len(passphrase) == 0 {
		return "", nil
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		secure.Zero(passphrase)
		return "", err
	}
	defer secure.Zero(confirm)

	if string(passphrase) != string(confirm) {
		secure.Zero(passphrase)
		return "", slip39err.WithSuggestion(
			slip39err.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	result := string(passphrase)
	secure.Zero(passphrase)
	return result, nil
}

// promptShares reads mnemonic shares interactively, one per line, until an
// empty line is entered.
func promptShares() ([]string, error) {
	outln(os.Stderr, "Enter mnemonic shares, one per line. Blank line to finish:")

	var shares []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		shares = append(shares, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading shares: %w", err)
	}
	if len(shares) == 0 {
		return nil, slip39err.WithSuggestion(slip39err.ErrInvalidInput, "no shares entered")
	}
	return shares, nil
}
