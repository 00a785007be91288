package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/srs"
)

// Profile retrieves a profile by ID. Missing profiles wrap srs.ErrNotFound.
func (db *DB) Profile(id uuid.UUID) (domain.Profile, error) {
	var (
		p     domain.Profile
		rawID string
	)
	err := db.conn.QueryRow(`
		SELECT id, name, aim, about, private FROM profiles WHERE id = ?
	`, id.String()).Scan(&rawID, &p.Name, &p.Aim, &p.About, &p.Private)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, srs.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to find profile %s: %w", id, err)
	}
	if p.ID, err = uuid.Parse(rawID); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to parse profile id %q: %w", rawID, err)
	}
	return p, nil
}

// InsertProfile inserts a new profile.
func (db *DB) InsertProfile(p domain.Profile) error {
	_, err := db.conn.Exec(`
		INSERT INTO profiles (id, name, aim, about, private) VALUES (?, ?, ?, ?, ?)
	`, p.ID.String(), p.Name, p.Aim, p.About, p.Private)
	if err != nil {
		return fmt.Errorf("failed to insert profile %s: %w", p.ID, err)
	}
	return nil
}

// SaveProfile updates a profile's settings. Aim changes take effect on the
// next quota computation; nothing is rescheduled retroactively.
func (db *DB) SaveProfile(p domain.Profile) error {
	_, err := db.conn.Exec(`
		UPDATE profiles SET name = ?, aim = ?, about = ?, private = ? WHERE id = ?
	`, p.Name, p.Aim, p.About, p.Private, p.ID.String())
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return nil
}
