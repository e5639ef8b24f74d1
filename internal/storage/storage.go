package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is the file-storage collaborator used by the document lifecycle.
// Delete is idempotent: a missing file is not an error.
type Store interface {
	Save(dir, name string, data []byte) (string, error)
	Delete(stored string) error
}

// LocalStore keeps files on the local filesystem under a single root
// directory. Saved paths are returned in canonical relative form
// ("documents/<name>") and Delete accepts any of the legacy shapes that
// Resolve understands.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Save(dir, name string, data []byte) (string, error) {
	rel := filepath.ToSlash(filepath.Join(dir, name))
	abs, err := Resolve(s.root, rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return rel, nil
}

func (s *LocalStore) Delete(stored string) error {
	abs, err := Resolve(s.root, stored)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
