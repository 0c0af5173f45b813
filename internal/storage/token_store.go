package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const lockTimeout = 5 * time.Second

// TokenStore persists small named JSON entries under a directory, one file
// per key. It is used for credential token records, which must survive
// process restarts and never be observed half-written.
type TokenStore struct {
	dir string
	mu  sync.Mutex
}

// NewTokenStore creates a store rooted at dir. The directory is created on
// first write if it does not exist.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// path returns the file path for a key.
func (s *TokenStore) path(key string) string {
	return filepath.Join(s.dir, fmt.Sprintf("token_%s.json", key))
}

// Load reads the entry named key into v.
// Returns ErrNotFound if no entry exists for the key.
func (s *TokenStore) Load(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return &StorageError{Op: "read", Key: key, Err: err}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &StorageError{Op: "read", Key: key, Err: ErrCorrupt}
	}
	return nil
}

// Save writes v as the entry named key, replacing any previous value.
// The write is guarded by an advisory file lock and performed atomically.
func (s *TokenStore) Save(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}

	lock := NewFileLock(path)
	if err := lock.Lock(lockTimeout); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}

	writer, err := NewAtomicWriter(path)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if _, err := writer.Write(data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}

	// Token files carry secrets; tighten permissions after the rename.
	if err := os.Chmod(path, 0600); err != nil {
		return &StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Delete removes the entry named key. Missing entries are not an error.
func (s *TokenStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}
