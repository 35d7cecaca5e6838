// Package storage retains uploaded files on disk so audit rows can point
// back at the original bytes.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore writes uploads under a single directory with collision-proof
// names.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures the upload directory exists.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the payload and returns its storage path. The original
// filename survives only as the extension; the rest of the name is a fresh
// UUID so concurrent uploads of the same file never collide.
func (s *DiskStore) Save(originalName string, payload []byte) (string, error) {
	name := fmt.Sprintf("file-%s%s", uuid.New().String(), filepath.Ext(originalName))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}
