// Package blob stores uploaded document originals on local disk.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const uploadsDir = "prd-files"

// FileStore persists uploaded files and hands back stable references.
type FileStore interface {
	// Save writes data and returns an opaque reference usable with Open.
	Save(userID, filename string, data []byte) (string, error)
	Open(ref string) ([]byte, error)
}

// DiskStore keeps files under <root>/prd-files/<userID>/<unix-ms>-<name>.
type DiskStore struct {
	root string
}

// NewDiskStore creates the backing directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	dir := filepath.Join(root, uploadsDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(userID, filename string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(filename))
	ref := filepath.Join(uploadsDir, userID, name)

	full := filepath.Join(s.root, ref)
	if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *DiskStore) Open(ref string) ([]byte, error) {
	clean := filepath.Clean(ref)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid file reference %q", ref)
	}
	return os.ReadFile(filepath.Join(s.root, clean))
}

// sanitize strips path separators so uploaded names cannot escape the store.
func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}
