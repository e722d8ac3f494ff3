package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	corestore "github.com/kilianp07/planfit/core/store"
)

// JSONStore persists the snapshot as a single JSON file. Writes go
// through a temp file and rename so a crash never leaves a torn
// snapshot behind.
type JSONStore struct {
	path string
}

// NewJSONStore creates a store at path, ensuring the parent directory
// exists.
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &JSONStore{path: path}, nil
}

// Save writes the snapshot atomically.
func (s *JSONStore) Save(snap corestore.Snapshot) error {
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the snapshot; a missing file is an empty store, not an
// error.
func (s *JSONStore) Load() (corestore.Snapshot, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return corestore.Snapshot{}, false, nil
	}
	if err != nil {
		return corestore.Snapshot{}, false, err
	}
	var snap corestore.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return corestore.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Close implements corestore.Store.
func (s *JSONStore) Close() error { return nil }
