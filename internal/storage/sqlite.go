package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the collection as one row of a key/value table.
type SQLiteSlot struct {
	conn *sql.DB
}

// OpenSQLite opens the database at path. ":memory:" is accepted for tests.
func OpenSQLite(path string) (*SQLiteSlot, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	// One connection: an in-memory database is per connection, and there is a single writer anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	slot := &SQLiteSlot{conn: conn}
	if err := slot.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return slot, nil
}

func (s *SQLiteSlot) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating slots table: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Read() ([]byte, bool, error) {
	var value []byte
	err := s.conn.QueryRow(`SELECT value FROM slots WHERE name = ?`, SlotName).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("sqlite: reading slot %s: %w", SlotName, err)
	}
	return value, true, nil
}

func (s *SQLiteSlot) Write(data []byte) error {
	_, err := s.conn.Exec(
		`INSERT INTO slots (name, value, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		SlotName,
		data,
	)
	if err != nil {
		return fmt.Errorf("sqlite: writing slot %s: %w", SlotName, err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.conn.Close()
}
