// Package storage is the sqlite persistence collaborator. It implements
// srs.Store plus the deck, template and source plumbing around it. All
// uniqueness invariants live here as UNIQUE constraints; get-or-create paths
// use INSERT ... ON CONFLICT so first-event-of-the-day races cannot produce
// duplicate rows.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to
// date. Foreign keys are switched on so deck deletion cascades.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// dayKey is the canonical date-only encoding for 'day' columns.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func parseDay(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

func encodeExamples(examples []string) (string, error) {
	if examples == nil {
		examples = []string{}
	}
	b, err := json.Marshal(examples)
	if err != nil {
		return "", fmt.Errorf("failed to encode examples: %w", err)
	}
	return string(b), nil
}

func decodeExamples(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var examples []string
	if err := json.Unmarshal([]byte(raw), &examples); err != nil {
		return nil, fmt.Errorf("failed to decode examples: %w", err)
	}
	if len(examples) == 0 {
		return nil, nil
	}
	return examples, nil
}
