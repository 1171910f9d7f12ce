package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// PublicPrefix is the URL path the HTTP server serves the upload directory on.
const PublicPrefix = "/uploads/"

// FileSystemStore writes media into a local directory.
type FileSystemStore struct {
	dir string
}

// NewFileSystemStore returns a store rooted at dir.
func NewFileSystemStore(dir string) *FileSystemStore {
	if dir == "" {
		dir = "uploads"
	}
	return &FileSystemStore{dir: dir}
}

// Dir is the directory files are written to.
func (s *FileSystemStore) Dir() string {
	return s.dir
}

func (s *FileSystemStore) Save(ctx context.Context, data []byte, originalName, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := ObjectName(originalName)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return PublicPrefix + name, nil
}
