package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore persists post attachments inside a single configured directory.
// Names handed to Delete/Exists/Open are bare filenames; anything containing
// a path separator is rejected so callers cannot escape the directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the upload directory if needed and returns a store
// scoped to it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// GenerateName returns a collision-resistant filename carrying the extension
// of the original upload.
func GenerateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return strings.ReplaceAll(uuid.New().String(), "-", "") + ext
}

// Save writes the attachment under the given generated name.
func (s *FileStore) Save(r io.Reader, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create attachment file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path) // Clean up partial file
		return fmt.Errorf("could not write attachment: %w", err)
	}
	return nil
}

// Delete removes a stored attachment. Deleting a name that does not exist is
// not an error.
func (s *FileStore) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether an attachment is present on disk.
func (s *FileStore) Exists(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Age returns how long ago a stored attachment was last modified.
func (s *FileStore) Age(name string) (time.Duration, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return time.Since(fi.ModTime()), nil
}

// Open returns the absolute path of a stored attachment for serving.
func (s *FileStore) Open(name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the names of every file currently in the upload directory.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid attachment name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
