// Package errors provides the CLI-facing structured error type for
// slip39: sentinel errors, exit codes, and helpers for adding context,
// details, and suggestions. The internal/mnemonic sentinels are mapped
// into this shape at the CLI boundary by Wrap/FromLibrary; other library
// errors (such as pkg/slip39.ErrInvalidParams) become GENERAL_ERROR. The
// library itself never depends on this package.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mrz1836/slip39/internal/mnemonic"
)

// Exit codes for the slip39 CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input (bad flags, malformed mnemonic)
	ExitAuth       = 3 // Wrong passphrase / decryption failure
	ExitNotFound   = 4 // Resource not found (backup file, config file)
	ExitPermission = 5 // Permission denied (keyring, filesystem)
)

// CLIError is the structured error type surfaced by cmd/slip39.
type CLIError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for the user
	Cause      error             // Underlying error
	ExitCode   int               // Process exit code
}

func (e *CLIError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CLIError) Unwrap() error { return e.Cause }

// Is implements errors.Is for CLIError, matching on Code.
func (e *CLIError) Is(target error) bool {
	var t *CLIError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &CLIError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &CLIError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &CLIError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrChecksumMismatch = &CLIError{
		Code:     "CHECKSUM_MISMATCH",
		Message:  "mnemonic checksum does not verify",
		ExitCode: ExitInput,
	}

	ErrDigestMismatch = &CLIError{
		Code:     "DIGEST_MISMATCH",
		Message:  "shares do not reconstruct a consistent secret",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &CLIError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted backup",
		ExitCode: ExitAuth,
	}

	ErrInvalidShareParams = &CLIError{
		Code:     "INVALID_SHARE_PARAMS",
		Message:  "share parameters are inconsistent",
		ExitCode: ExitInput,
	}

	ErrNotFound = &CLIError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrBackupNotFound = &CLIError{
		Code:     "BACKUP_NOT_FOUND",
		Message:  "backup file not found",
		ExitCode: ExitNotFound,
	}

	ErrBackupCorrupted = &CLIError{
		Code:     "BACKUP_CORRUPTED",
		Message:  "backup file is corrupted or was not produced by this tool",
		ExitCode: ExitInput,
	}

	ErrConfigNotFound = &CLIError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &CLIError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrPermission = &CLIError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	ErrRateLimited = &CLIError{
		Code:     "RATE_LIMITED",
		Message:  "too many recovery attempts, slow down",
		ExitCode: ExitInput,
	}
)

// New creates a new CLIError with the given code and message.
func New(code, message string) *CLIError {
	return &CLIError{Code: code, Message: message, ExitCode: ExitGeneral}
}

// Wrap wraps err with additional context, preserving CLIError shape and
// exit code when err already carries one, and translating the
// internal/mnemonic sentinels (checksum, length, padding, unknown word,
// share parameters) to their closest CLIError otherwise.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	if ce, ok := asCLIError(err); ok {
		return &CLIError{
			Code:       ce.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ce.Message),
			Details:    ce.Details,
			Suggestion: ce.Suggestion,
			Cause:      err,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CLIError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// FromLibrary maps a raw library error (mnemonic.Error, or any other
// error) to the CLIError a CLI command should present and exit with.
func FromLibrary(err error) *CLIError {
	if err == nil {
		return nil
	}
	if ce, ok := asCLIError(err); ok {
		return ce
	}
	return &CLIError{Code: "GENERAL_ERROR", Message: err.Error(), Cause: err, ExitCode: ExitGeneral}
}

// asCLIError resolves err to its CLIError, either because it already is
// one or because it wraps a recognized library sentinel.
func asCLIError(err error) (*CLIError, bool) {
	var ce *CLIError
	if errors.As(err, &ce) {
		return ce, true
	}

	switch {
	case errors.Is(err, mnemonic.ErrInvalidChecksum):
		return withCause(ErrChecksumMismatch, err), true
	case errors.Is(err, mnemonic.ErrTooShort),
		errors.Is(err, mnemonic.ErrInvalidPadding),
		errors.Is(err, mnemonic.ErrInvalidPaddingLength),
		errors.Is(err, mnemonic.ErrUnknownWord):
		return withCause(ErrInvalidMnemonic, err), true
	case errors.Is(err, mnemonic.ErrInvalidShareParams):
		return withCause(ErrInvalidShareParams, err), true
	}
	return nil, false
}

func withCause(base *CLIError, cause error) *CLIError {
	c := *base
	c.Cause = cause
	return &c
}

// WithDetails adds details to err, preserving its CLIError shape.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}
	if ce, ok := asCLIError(err); ok {
		return &CLIError{
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    details,
			Suggestion: ce.Suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}
	return &CLIError{Code: "GENERAL_ERROR", Message: err.Error(), Details: details, Cause: err, ExitCode: ExitGeneral}
}

// WithSuggestion adds an actionable suggestion to err.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	if ce, ok := asCLIError(err); ok {
		return &CLIError{
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    ce.Details,
			Suggestion: suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}
	return &CLIError{Code: "GENERAL_ERROR", Message: err.Error(), Suggestion: suggestion, Cause: err, ExitCode: ExitGeneral}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if ce, ok := asCLIError(err); ok {
		return ce.ExitCode
	}
	return ExitGeneral
}

// Code returns the machine-readable error code for err.
func Code(err error) string {
	if ce, ok := asCLIError(err); ok {
		return ce.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool { return errors.Is(err, target) }

// As wraps errors.As for convenience.
func As(err error, target any) bool { return errors.As(err, target) }
