package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/iconbridge/internal/logger"
)

const (
	configDir = ".iconbridge"
	storeFile = "store.json"
)

// LocalStore keeps every key in one JSON document on disk.
type LocalStore struct {
	path string
	doc  *document
	mu   sync.RWMutex
}

// DefaultStorePath returns ~/.iconbridge/store.json.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, storeFile), nil
}

// NewLocalStore opens the store at path, or at DefaultStorePath when path is
// empty. A missing file is an empty store.
func NewLocalStore(path string) (*LocalStore, error) {
	if path == "" {
		defaultPath, err := DefaultStorePath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	store := &LocalStore{
		path: path,
		doc:  &document{Version: documentVersion, Entries: map[string]json.RawMessage{}},
	}

	if err := store.ensureDir(); err != nil {
		return nil, err
	}

	if err := store.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return store, nil
}

func (s *LocalStore) Path() string {
	return s.path
}

func (s *LocalStore) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		logger.LogError("MKDIR", dir, err)
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

func (s *LocalStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.LogFileOpen(s.path)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("LOAD", s.path, err)
		}
		return err
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		logger.LogError("UNMARSHAL", s.path, err)
		return fmt.Errorf("failed to parse store %s: %w", s.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]json.RawMessage{}
	}
	s.doc = doc

	logger.Log("Store loaded from %s (%d keys)", s.path, len(doc.Entries))
	return nil
}

// save writes to a temporary file and renames it over the store.
func (s *LocalStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", s.path, err)
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	logger.LogFileWrite(s.path)
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		logger.LogError("SAVE", tmp, err)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		logger.LogError("RENAME", s.path, err)
		return err
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.doc.Entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *LocalStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.doc.Entries[key]
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	s.doc.Entries[key] = stored
	if err := s.save(); err != nil {
		if existed {
			s.doc.Entries[key] = previous
		} else {
			delete(s.doc.Entries, key)
		}
		return err
	}
	return nil
}

// MemoryStore is a Store without persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]byte{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}
