package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/srs"
)

// Deck retrieves a deck with its tags and card count. Missing decks wrap
// srs.ErrNotFound.
func (db *DB) Deck(id uuid.UUID) (domain.Deck, error) {
	var (
		deck       domain.Deck
		rawID      string
		profileID  string
		templateID sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT d.id, d.profile_id, d.template_id, d.name, d.favorite, d.created,
		       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id)
		FROM decks d WHERE d.id = ?
	`, id.String()).Scan(&rawID, &profileID, &templateID, &deck.Name, &deck.Favorite, &deck.Created, &deck.Cards)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Deck{}, fmt.Errorf("deck %s: %w", id, srs.ErrNotFound)
	}
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to find deck %s: %w", id, err)
	}
	if deck.ID, err = uuid.Parse(rawID); err != nil {
		return domain.Deck{}, fmt.Errorf("failed to parse deck id %q: %w", rawID, err)
	}
	if deck.ProfileID, err = uuid.Parse(profileID); err != nil {
		return domain.Deck{}, fmt.Errorf("failed to parse deck profile id %q: %w", profileID, err)
	}
	if templateID.Valid {
		tid, err := uuid.Parse(templateID.String)
		if err != nil {
			return domain.Deck{}, fmt.Errorf("failed to parse deck template id %q: %w", templateID.String, err)
		}
		deck.TemplateID = &tid
	}
	if deck.Tags, err = db.tagsFor("deck_tags", "deck_id", deck.ID); err != nil {
		return domain.Deck{}, err
	}
	return deck, nil
}

// InsertDeck inserts a deck and its tags. Tag names are lowercased and must
// validate; invalid tags are rejected before anything is written.
func (db *DB) InsertDeck(deck domain.Deck) error {
	tags, err := normalizeTags(deck.Tags)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		INSERT INTO decks (id, profile_id, template_id, name, favorite, created)
		VALUES (?, ?, ?, ?, ?, ?)
	`, deck.ID.String(), deck.ProfileID.String(), nullUUID(deck.TemplateID), deck.Name, deck.Favorite, deck.Created)
	if err != nil {
		return fmt.Errorf("failed to insert deck %s: %w", deck.ID, err)
	}
	return db.setTags("deck_tags", "deck_id", deck.ID, tags)
}

// SaveDeck updates a deck's name, favorite flag and tags.
func (db *DB) SaveDeck(deck domain.Deck) error {
	tags, err := normalizeTags(deck.Tags)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		UPDATE decks SET name = ?, favorite = ? WHERE id = ?
	`, deck.Name, deck.Favorite, deck.ID.String())
	if err != nil {
		return fmt.Errorf("failed to save deck %s: %w", deck.ID, err)
	}
	if _, err := db.conn.Exec(`DELETE FROM deck_tags WHERE deck_id = ?`, deck.ID.String()); err != nil {
		return fmt.Errorf("failed to clear tags for deck %s: %w", deck.ID, err)
	}
	return db.setTags("deck_tags", "deck_id", deck.ID, tags)
}

// DeleteDeck removes a deck; cards, success records and statistics cascade.
func (db *DB) DeleteDeck(id uuid.UUID) error {
	_, err := db.conn.Exec(`DELETE FROM decks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", id, err)
	}
	return nil
}

// ProfileDecks returns the profile's decks in creation order.
func (db *DB) ProfileDecks(profileID uuid.UUID) ([]domain.Deck, error) {
	rows, err := db.conn.Query(`
		SELECT id FROM decks WHERE profile_id = ? ORDER BY rowid
	`, profileID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get decks for profile %s: %w", profileID, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan deck row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse deck id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	decks := []domain.Deck{}
	for _, id := range ids {
		deck, err := db.Deck(id)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

func (db *DB) tagsFor(table, column string, id uuid.UUID) ([]string, error) {
	rows, err := db.conn.Query(
		fmt.Sprintf(`SELECT tag FROM %s WHERE %s = ? ORDER BY tag`, table, column),
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (db *DB) setTags(table, column string, id uuid.UUID, tags []string) error {
	for _, tag := range tags {
		_, err := db.conn.Exec(
			fmt.Sprintf(`INSERT INTO %s (%s, tag) VALUES (?, ?) ON CONFLICT DO NOTHING`, table, column),
			id.String(), tag,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}
	return nil
}

// normalizeTags lowercases tag names and validates them.
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if !domain.ValidTag(t) {
			return nil, fmt.Errorf("invalid tag name %q", tag)
		}
		out = append(out, t)
	}
	return out, nil
}
