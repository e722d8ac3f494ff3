package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	corestore "github.com/kilianp07/planfit/core/store"
)

// SQLiteStore persists snapshots to a SQLite database, one row per save,
// so earlier states remain recoverable.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the
// schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS snapshots (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        saved_at INTEGER,
        snapshot TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save appends the snapshot as a JSON row.
func (s *SQLiteStore) Save(snap corestore.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO snapshots (saved_at, snapshot) VALUES (?, ?)`,
		snap.SavedAt.UnixNano(), string(b))
	return err
}

// Load returns the most recently saved snapshot.
func (s *SQLiteStore) Load() (corestore.Snapshot, bool, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT snapshot FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return corestore.Snapshot{}, false, nil
	}
	if err != nil {
		return corestore.Snapshot{}, false, err
	}
	var snap corestore.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return corestore.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
