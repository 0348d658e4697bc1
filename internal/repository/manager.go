package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/lettersync/cli/internal/errors"
)

// Manager implements the LetterRepository interface over a directory tree.
// Fingerprints depend only on file contents, never on metadata.
type Manager struct {
	root string
}

// NewManager creates a repository rooted at the given directory. The directory
// does not need to exist yet; a missing root lists as empty.
func NewManager(root string) *Manager {
	return &Manager{root: root}
}

// Root returns the absolute tracked root directory.
func (m *Manager) Root() string {
	return m.root
}

// List returns every tracked relative path under the root, sorted.
func (m *Manager) List() ([]string, error) {
	var paths []string

	err := filepath.Walk(m.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(m.root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError("failed to list letter files", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Fingerprint returns the SHA-256 content fingerprint of a tracked file, or
// "" when the file does not exist locally.
func (m *Manager) Fingerprint(path string) (string, error) {
	file, err := os.Open(m.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewIOError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errors.NewIOError(fmt.Sprintf("failed to hash %s", path), err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Read returns the contents of a tracked file.
func (m *Manager) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(m.abs(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no local letter %s", path))
		}
		return nil, errors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, nil
}

// Write stores file contents under the root, creating parent directories as
// needed. The write goes through a temp file and rename so a crash never
// leaves a half-written letter behind.
func (m *Manager) Write(path string, data []byte) error {
	dst := m.abs(path)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create parent directory for %s", path), err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".lettersync-tmp-*")
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create temp file for %s", path), err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := tmpFile.Chmod(0644); err != nil {
		tmpFile.Close()
		return errors.NewIOError(fmt.Sprintf("failed to set mode on %s", path), err)
	}
	if err := tmpFile.Close(); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to close %s", path), err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}

// FingerprintData computes the fingerprint of in-memory contents, matching
// what Fingerprint would report after writing the same bytes.
func FingerprintData(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (m *Manager) abs(path string) string {
	return filepath.Join(m.root, filepath.FromSlash(path))
}
