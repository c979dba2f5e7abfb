package kv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoKey is returned when a key has never been written.
var ErrNoKey = errors.New("key not found")

type config interface {
	FilePath() string
}

// FileStore is a file-backed key-value port: a single JSON document
// mapping keys to raw values, rewritten atomically on every Set.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]json.RawMessage
}

func NewFileStore(cfg config) (*FileStore, error) {
	path := cfg.FilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	s := &FileStore{path: path, entries: make(map[string]json.RawMessage)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read data file")
	}
	if len(data) > 0 {
		if err = json.Unmarshal(data, &s.entries); err != nil {
			return nil, errors.Wrap(err, "parse data file")
		}
	}
	return s, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.entries[key]
	if !ok {
		return nil, ErrNoKey
	}
	return value, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = json.RawMessage(value)
	return s.persistLocked()
}

// persistLocked writes through a temp file and renames it over the data
// file, so a crashed write never leaves a truncated store behind.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal entries")
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace data file")
	}
	return nil
}
