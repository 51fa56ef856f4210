package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/mrz1836/slip39/internal/fileutil"
)

const (
	// BundleExtension is the file extension for exported bundles.
	BundleExtension = ".slip39"

	// DirPermissions is the permission mode for the backup directory.
	DirPermissions = 0o750

	// FilePermissions is the permission mode for backup files.
	FilePermissions = 0o600

	// scryptWorkFactor is age's secure default scrypt work factor.
	scryptWorkFactor = 18
)

// Export JSON-marshals bundle and age-encrypts it with a scrypt (password)
// recipient, returning the serialized file ready to write to disk.
func Export(bundle Bundle, passphrase string) ([]byte, error) {
	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("serializing bundle: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted bundle: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return json.MarshalIndent(newFile(buf.Bytes()), "", "  ")
}

// Import reverses Export: it validates the on-disk envelope, decrypts the
// age payload, and unmarshals the resulting Bundle.
func Import(data []byte, passphrase string) (Bundle, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := f.validate(); err != nil {
		return Bundle{}, err
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return Bundle{}, fmt.Errorf("creating scrypt identity: %w", err)
	}
	identity.SetMaxWorkFactor(scryptWorkFactor)

	r, err := age.Decrypt(bytes.NewReader(f.EncryptedData), identity)
	if err != nil {
		return Bundle{}, ErrDecryptionFailed
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return Bundle{}, ErrDecryptionFailed
	}

	var bundle Bundle
	if err := json.Unmarshal(plaintext, &bundle); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return bundle, nil
}

// WriteFile writes an exported bundle file under dir, deriving a filename
// from the bundle's creation time, and returns the path written.
func WriteFile(dir string, bundle Bundle, passphrase string) (string, error) {
	data, err := Export(bundle, passphrase)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	filename := fmt.Sprintf("slip39-%d%s", bundle.CreatedAtUnix, BundleExtension)
	path := filepath.Join(dir, filename)
	if err := fileutil.WriteAtomic(path, data, FilePermissions); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	return path, nil
}

// ReadFile reads and decrypts a bundle previously written by WriteFile.
func ReadFile(path string, passphrase string) (Bundle, error) {
	// #nosec G304 -- path is from user input (CLI flag), not attacker-controlled network input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Bundle{}, ErrBackupNotFound
		}
		return Bundle{}, fmt.Errorf("reading backup file: %w", err)
	}
	return Import(data, passphrase)
}

// List returns the bundle filenames present in dir.
func List(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == BundleExtension {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
