package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var ErrDirRequired = errors.New("storage directory not provided")

// FileStore persists one JSON file per key inside a directory. Writes go
// through a temp file and rename, matching how the rest of the persisted
// state on disk is kept crash-consistent.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a store rooted at dir on the given filesystem. Pass
// afero.NewOsFs() for real disk storage or a memory fs in tests.
func NewFileStore(fsys afero.Fs, dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrDirRequired
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileStore{fs: fsys, dir: dir}, nil
}

// Get decodes the value stored under key. Absent keys and undecodable
// payloads both report found=false; a corrupt file is logged, not fatal.
func (s *FileStore) Get(key string, value any) (bool, error) {
	data, err := afero.ReadFile(s.fs, s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		log.Printf("[kvstore] discarding corrupt value for %s: %v", key, err)
		return false, nil
	}

	return true, nil
}

// Set encodes value and atomically replaces the file for key.
func (s *FileStore) Set(key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	path := s.pathFor(key)
	tmp := path + ".tmp"

	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("replace %s: %w", key, err)
	}

	return nil
}

// Delete removes the file for key. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	err := s.fs.Remove(s.pathFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) pathFor(key string) string {
	// Keys may embed user-derived ids; escape anything the filesystem
	// could interpret.
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
