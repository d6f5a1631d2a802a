package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alexisbeaulieu97/picgrid/internal/ports"
	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

const fileStoreVersion = "1.0"

// StoreFile is the on-disk layout of a FileStore.
type StoreFile struct {
	Version string                     `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// FileStore persists key/value entries in a single JSON document.
type FileStore struct {
	path    string
	mu      sync.RWMutex
	version string
	entries map[string]json.RawMessage

	recovered error
}

// NewFileStore creates a FileStore and loads it from disk when the file exists.
// An undecodable file is moved aside to BackupPath and the store starts empty;
// Recovered reports what happened.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		version: fileStoreVersion,
		entries: make(map[string]json.RawMessage),
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewPersistenceError("", "create directory", err)
	}

	if err := s.load(); err != nil {
		switch {
		case os.IsNotExist(err):
		case apperrors.IsPersistenceFailure(err):
			s.recoverCorrupt(err)
		default:
			return nil, apperrors.NewPersistenceError("", "read store file", err)
		}
	}

	return s, nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// BackupPath is where an undecodable store file is moved.
func (s *FileStore) BackupPath() string {
	return s.path + ".corrupt"
}

// Recovered returns the decode failure that made the store start empty, or nil.
func (s *FileStore) Recovered() error {
	return s.recovered
}

func (s *FileStore) recoverCorrupt(cause error) {
	s.entries = make(map[string]json.RawMessage)
	s.recovered = cause
	if err := os.Rename(s.path, s.BackupPath()); err != nil {
		s.recovered = fmt.Errorf("%w (backup failed: %v)", cause, err)
	}
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var file StoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		return apperrors.NewPersistenceError("", "decode store file", err)
	}

	if file.Version != "" {
		s.version = file.Version
	}
	s.entries = file.Entries
	if s.entries == nil {
		s.entries = make(map[string]json.RawMessage)
	}

	return nil
}

// Get returns a copy of the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, apperrors.NewPersistenceError(key, "read", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true, nil
}

// Set stores value under key and rewrites the file. Values must be valid JSON.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewPersistenceError(key, "write", err)
	}
	if !json.Valid(value) {
		return apperrors.NewPersistenceError(key, "write", fmt.Errorf("value is not valid JSON"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.entries[key] = stored

	if err := s.saveLocked(); err != nil {
		return apperrors.NewPersistenceError(key, "write", err)
	}
	return nil
}

// saveLocked writes the store to disk atomically. Callers hold s.mu.
func (s *FileStore) saveLocked() error {
	file := StoreFile{
		Version: s.version,
		Entries: s.entries,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	// Write to temporary file first
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Close is a no-op; every Set is already flushed to disk.
func (s *FileStore) Close() error {
	return nil
}

var _ ports.KeyValueStore = (*FileStore)(nil)
