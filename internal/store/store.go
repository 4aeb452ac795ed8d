package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

var (
	ErrConflict = errors.New("url already exists")
	ErrNotFound = errors.New("url not found")
)

// StorageError reports a failure to read, decode or write the backing file.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store keeps the blocked URLs as a JSON array in a single file.
// Every operation re-reads the file, so edits made outside the
// process are picked up on the next call.
type Store struct {
	sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Normalize prefixes the candidate with https:// unless it already
// carries an http:// or https:// scheme.
func Normalize(candidate string) string {
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate
	}
	return "https://" + candidate
}

// ReadAll returns the stored URLs in insertion order. A missing file
// is created holding an empty list.
func (s *Store) ReadAll() ([]string, error) {
	s.Lock()
	defer s.Unlock()

	return s.read()
}

// Add stores the normalized form of candidate and returns it.
// ErrConflict is returned when the exact URL is already stored.
func (s *Store) Add(candidate string) (string, error) {
	url := Normalize(candidate)

	s.Lock()
	defer s.Unlock()

	urls, err := s.read()
	if err != nil {
		return url, err
	}

	if slices.Contains(urls, url) {
		return url, ErrConflict
	}

	return url, s.write(append(urls, url))
}

// Remove deletes the first occurrence of the normalized candidate.
// ErrNotFound is returned when it is not stored.
func (s *Store) Remove(candidate string) (string, error) {
	url := Normalize(candidate)

	s.Lock()
	defer s.Unlock()

	urls, err := s.read()
	if err != nil {
		return url, err
	}

	i := slices.Index(urls, url)
	if i == -1 {
		return url, ErrNotFound
	}

	return url, s.write(slices.Delete(urls, i, i+1))
}

func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		urls := []string{}
		return urls, s.write(urls)
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, &StorageError{Op: "decode", Path: s.path, Err: err}
	}

	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

// write replaces the file in one rename so readers never see a
// partially written list.
func (s *Store) write(urls []string) error {
	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".blocked-*.json")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}

	return nil
}
