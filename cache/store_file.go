package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore stores artifacts as JSON files in a directory.
type FileStore struct {
	Dir string
}

// DefaultDir is the directory used by a FileStore with an empty Dir.
func DefaultDir() string { return filepath.Join(os.TempDir(), "ynamazon") }

// NewFileStore returns a FileStore in dir, or DefaultDir if dir is empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileStore{Dir: dir}
}

// Path returns the file of the artifact (name, key).
func (s *FileStore) Path(name, key string) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.json", name, key))
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, name, key string) ([]byte, error) {
	content, err := os.ReadFile(s.Path(name, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return content, err
}

// Save implements Store. The file is replaced atomically, so a reader never
// sees a partially written artifact.
func (s *FileStore) Save(ctx context.Context, name, key string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("cannot create cache dir: %w", err)
	}
	f, err := os.CreateTemp(s.Dir, name+"_*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create cache file: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.Path(name, key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot replace cache file: %w", err)
	}
	return nil
}
