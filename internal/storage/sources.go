package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source is the origin of imported deck templates: a local directory of
// markdown files or a git repository URL.
type Source struct {
	ID           int64
	Path         string
	Kind         string // "local" or "git"
	LastImported sql.NullTime
}

// InsertSource registers a new source and returns its ID.
func (db *DB) InsertSource(path, kind string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO sources (path, kind) VALUES (?, ?)
	`, path, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// Sources returns all registered sources.
func (db *DB) Sources() ([]Source, error) {
	rows, err := db.conn.Query(`
		SELECT id, path, kind, last_imported FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Kind, &s.LastImported); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source; templates imported from it survive with a
// cleared source link.
func (db *DB) DeleteSource(id int64) error {
	_, err := db.conn.Exec(`DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	return nil
}

// TouchSource records a completed import for the source.
func (db *DB) TouchSource(id int64, when time.Time) error {
	_, err := db.conn.Exec(`UPDATE sources SET last_imported = ? WHERE id = ?`, when, id)
	if err != nil {
		return fmt.Errorf("failed to update last imported for source %d: %w", id, err)
	}
	return nil
}

// SourceTemplate finds the template a source previously produced for the
// given name, or uuid.Nil when none exists yet.
func (db *DB) SourceTemplate(sourceID int64, name string) (uuid.UUID, error) {
	var raw string
	err := db.conn.QueryRow(`
		SELECT id FROM templates WHERE source_id = ? AND name = ?
	`, sourceID, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find template for source %d name %q: %w", sourceID, name, err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse template id %q: %w", raw, err)
	}
	return id, nil
}

// BindTemplateSource links a template to the source that produced it.
func (db *DB) BindTemplateSource(templateID uuid.UUID, sourceID int64) error {
	_, err := db.conn.Exec(`UPDATE templates SET source_id = ? WHERE id = ?`, sourceID, templateID.String())
	if err != nil {
		return fmt.Errorf("failed to bind template %s to source %d: %w", templateID, sourceID, err)
	}
	return nil
}
