package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/fingerprint"
	"github.com/lldeck/lldeck/internal/srs"
)

// Template retrieves a deck template with its tags, shares and card count.
func (db *DB) Template(id uuid.UUID) (domain.DeckTemplate, error) {
	var (
		t         domain.DeckTemplate
		rawID     string
		creatorID string
	)
	err := db.conn.QueryRow(`
		SELECT t.id, t.creator_id, t.name, t.public, t.downloads, t.created,
		       (SELECT COUNT(*) FROM template_cards c WHERE c.template_id = t.id)
		FROM templates t WHERE t.id = ?
	`, id.String()).Scan(&rawID, &creatorID, &t.Name, &t.Public, &t.Downloads, &t.Created, &t.Cards)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeckTemplate{}, fmt.Errorf("template %s: %w", id, srs.ErrNotFound)
	}
	if err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to find template %s: %w", id, err)
	}
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to parse template id %q: %w", rawID, err)
	}
	if t.CreatorID, err = uuid.Parse(creatorID); err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to parse template creator id %q: %w", creatorID, err)
	}
	if t.Tags, err = db.tagsFor("template_tags", "template_id", t.ID); err != nil {
		return domain.DeckTemplate{}, err
	}
	if t.SharedWith, err = db.templateShares(t.ID); err != nil {
		return domain.DeckTemplate{}, err
	}
	return t, nil
}

// InsertTemplate inserts a template and its tags.
func (db *DB) InsertTemplate(t domain.DeckTemplate) error {
	tags, err := normalizeTags(t.Tags)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		INSERT INTO templates (id, creator_id, name, public, downloads, created)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID.String(), t.CreatorID.String(), t.Name, t.Public, t.Downloads, t.Created)
	if err != nil {
		return fmt.Errorf("failed to insert template %s: %w", t.ID, err)
	}
	return db.setTags("template_tags", "template_id", t.ID, tags)
}

// SetTemplatePublic toggles a template's public visibility.
func (db *DB) SetTemplatePublic(id uuid.UUID, public bool) error {
	_, err := db.conn.Exec(`UPDATE templates SET public = ? WHERE id = ?`, public, id.String())
	if err != nil {
		return fmt.Errorf("failed to set template %s public=%t: %w", id, public, err)
	}
	return nil
}

// ShareTemplate grants a profile access to a private template. Re-sharing is
// a no-op.
func (db *DB) ShareTemplate(templateID, profileID uuid.UUID) error {
	_, err := db.conn.Exec(`
		INSERT INTO template_shares (template_id, profile_id) VALUES (?, ?)
		ON CONFLICT(template_id, profile_id) DO NOTHING
	`, templateID.String(), profileID.String())
	if err != nil {
		return fmt.Errorf("failed to share template %s with %s: %w", templateID, profileID, err)
	}
	return nil
}

// DeleteTemplate removes a template; its cards, tags and shares cascade.
// Decks instantiated from it keep living with a cleared provenance link.
func (db *DB) DeleteTemplate(id uuid.UUID) error {
	_, err := db.conn.Exec(`DELETE FROM templates WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	return nil
}

// VisibleTemplates returns the templates the profile can instantiate: its
// own, those shared with it, and public ones.
func (db *DB) VisibleTemplates(profileID uuid.UUID) ([]domain.DeckTemplate, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT t.id FROM templates t
		LEFT JOIN template_shares s ON s.template_id = t.id
		WHERE t.public = 1 OR t.creator_id = ? OR s.profile_id = ?
		ORDER BY t.rowid
	`, profileID.String(), profileID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for profile %s: %w", profileID, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := []domain.DeckTemplate{}
	for _, id := range ids {
		t, err := db.Template(id)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// TemplateCards returns the template's cards in insertion order.
func (db *DB) TemplateCards(templateID uuid.UUID) ([]domain.CardTemplate, error) {
	rows, err := db.conn.Query(`
		SELECT id, template_id, name, word, helper_text, definition, examples, fingerprint
		FROM template_cards WHERE template_id = ?
		ORDER BY rowid
	`, templateID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var cards []domain.CardTemplate
	for rows.Next() {
		var (
			c          domain.CardTemplate
			rawID      string
			rawTplID   string
			examples   string
		)
		if err := rows.Scan(&rawID, &rawTplID, &c.Name, &c.Word, &c.HelperText,
			&c.Definition, &examples, &c.Fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan template card row: %w", err)
		}
		if c.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("failed to parse template card id %q: %w", rawID, err)
		}
		if c.TemplateID, err = uuid.Parse(rawTplID); err != nil {
			return nil, fmt.Errorf("failed to parse template id %q: %w", rawTplID, err)
		}
		if c.Examples, err = decodeExamples(examples); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// InsertTemplateCard inserts a template card. The UNIQUE(template_id,
// fingerprint) constraint dedupes identical content; duplicates report
// false without error.
func (db *DB) InsertTemplateCard(c domain.CardTemplate) (bool, error) {
	examples, err := encodeExamples(c.Examples)
	if err != nil {
		return false, err
	}
	res, err := db.conn.Exec(`
		INSERT INTO template_cards (id, template_id, name, word, helper_text, definition, examples, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(template_id, fingerprint) DO NOTHING
	`, c.ID.String(), c.TemplateID.String(), c.Name, c.Word, c.HelperText, c.Definition, examples, c.Fingerprint)
	if err != nil {
		return false, fmt.Errorf("failed to insert template card %s: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for template card %s: %w", c.ID, err)
	}
	return n > 0, nil
}

// DeleteTemplateCard removes a template card by fingerprint.
func (db *DB) DeleteTemplateCard(templateID uuid.UUID, fingerprint string) error {
	_, err := db.conn.Exec(`
		DELETE FROM template_cards WHERE template_id = ? AND fingerprint = ?
	`, templateID.String(), fingerprint)
	if err != nil {
		return fmt.Errorf("failed to delete template card %s/%s: %w", templateID, fingerprint, err)
	}
	return nil
}

// InstantiateTemplate creates a live deck from a template for the profile:
// the template's tags and cards are copied, every card starting Idle with
// the default coefficient, and the template's download count is bumped. The
// whole copy is one transaction.
func (db *DB) InstantiateTemplate(templateID, profileID uuid.UUID, now time.Time) (domain.Deck, error) {
	t, err := db.Template(templateID)
	if err != nil {
		return domain.Deck{}, err
	}
	cards, err := db.TemplateCards(templateID)
	if err != nil {
		return domain.Deck{}, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to begin instantiate: %w", err)
	}
	defer tx.Rollback()

	deckID := uuid.New()
	_, err = tx.Exec(`
		INSERT INTO decks (id, profile_id, template_id, name, favorite, created)
		VALUES (?, ?, ?, ?, 0, ?)
	`, deckID.String(), profileID.String(), templateID.String(), t.Name, now)
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to insert deck from template %s: %w", templateID, err)
	}
	for _, tag := range t.Tags {
		_, err = tx.Exec(`INSERT INTO deck_tags (deck_id, tag) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			deckID.String(), tag)
		if err != nil {
			return domain.Deck{}, fmt.Errorf("failed to copy tag %q: %w", tag, err)
		}
	}
	for _, tc := range cards {
		card := domain.NewCard(deckID, tc.Name)
		card.TemplateID = &tc.ID
		card.Word = tc.Word
		card.HelperText = tc.HelperText
		card.Definition = tc.Definition
		card.Examples = tc.Examples
		card.Created = now
		if err := insertCard(tx, card); err != nil {
			return domain.Deck{}, err
		}
	}
	_, err = tx.Exec(`UPDATE templates SET downloads = downloads + 1 WHERE id = ?`, templateID.String())
	if err != nil {
		return domain.Deck{}, fmt.Errorf("failed to bump downloads for template %s: %w", templateID, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Deck{}, fmt.Errorf("failed to commit instantiate: %w", err)
	}
	return db.Deck(deckID)
}

// TemplateFromDeck creates a template out of a live deck's content. The
// scheduling state stays behind; only names, content and tags are copied.
func (db *DB) TemplateFromDeck(deckID uuid.UUID, now time.Time) (domain.DeckTemplate, error) {
	deck, err := db.Deck(deckID)
	if err != nil {
		return domain.DeckTemplate{}, err
	}
	cards, err := db.DeckCards(deckID)
	if err != nil {
		return domain.DeckTemplate{}, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to begin template copy: %w", err)
	}
	defer tx.Rollback()

	templateID := uuid.New()
	_, err = tx.Exec(`
		INSERT INTO templates (id, creator_id, name, public, downloads, created)
		VALUES (?, ?, ?, 0, 0, ?)
	`, templateID.String(), deck.ProfileID.String(), deck.Name, now)
	if err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to insert template from deck %s: %w", deckID, err)
	}
	for _, tag := range deck.Tags {
		_, err = tx.Exec(`INSERT INTO template_tags (template_id, tag) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			templateID.String(), tag)
		if err != nil {
			return domain.DeckTemplate{}, fmt.Errorf("failed to copy tag %q: %w", tag, err)
		}
	}
	for _, c := range cards {
		examples, err := encodeExamples(c.Examples)
		if err != nil {
			return domain.DeckTemplate{}, err
		}
		_, err = tx.Exec(`
			INSERT INTO template_cards (id, template_id, name, word, helper_text, definition, examples, fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(template_id, fingerprint) DO NOTHING
		`, uuid.New().String(), templateID.String(), c.Name, c.Word, c.HelperText, c.Definition, examples,
			fingerprint.Card(c.Word, c.HelperText, c.Definition, c.Examples))
		if err != nil {
			return domain.DeckTemplate{}, fmt.Errorf("failed to copy card %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.DeckTemplate{}, fmt.Errorf("failed to commit template copy: %w", err)
	}
	return db.Template(templateID)
}

func (db *DB) templateShares(templateID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := db.conn.Query(`
		SELECT profile_id FROM template_shares WHERE template_id = ? ORDER BY rowid
	`, templateID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get shares for template %s: %w", templateID, err)
	}
	defer rows.Close()

	var shares []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan share row: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse share profile id %q: %w", raw, err)
		}
		shares = append(shares, id)
	}
	return shares, rows.Err()
}
