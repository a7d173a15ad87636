package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"noirqr/menu-svc/internal/service"
)

// DiskImageStore writes uploads into a directory that is served as static files.
type DiskImageStore struct {
	Dir string
}

func NewDiskImageStore(dir string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskImageStore{Dir: dir}, nil
}

func (s *DiskImageStore) Put(name string, data []byte) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0644)
}

var _ service.ImageStore = (*DiskImageStore)(nil)
