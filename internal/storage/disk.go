package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DiskStorage stores avatars on the local filesystem under
// <root>/avatars and returns /uploads/avatars/<file> references, which the
// HTTP server exposes as static files.
type DiskStorage struct {
	root string
}

// NewDiskStorage creates the avatars directory if needed.
func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, "avatars"), 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{root: root}, nil
}

// Root returns the directory served under /uploads.
func (s *DiskStorage) Root() string {
	return s.root
}

// Save writes the image to disk under a timestamped, sanitized name.
func (s *DiskStorage) Save(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))

	f, err := os.Create(filepath.Join(s.root, "avatars", name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return "/uploads/avatars/" + name, nil
}

// Delete removes the file behind a /uploads/avatars/<file> reference.
func (s *DiskStorage) Delete(_ context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" {
		return fmt.Errorf("invalid avatar reference %q", ref)
	}
	return os.Remove(filepath.Join(s.root, "avatars", name))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Join(strings.Fields(name), "-")
}
