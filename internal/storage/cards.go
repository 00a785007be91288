package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
	"github.com/lldeck/lldeck/internal/srs"
)

// Card retrieves a card by ID. Missing cards wrap srs.ErrNotFound.
func (db *DB) Card(id uuid.UUID) (domain.Card, error) {
	row := db.conn.QueryRow(`
		SELECT id, deck_id, template_id, name, word, helper_text, definition, examples,
		       state, opened, next_due, k, created
		FROM cards WHERE id = ?
	`, id.String())

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, srs.ErrNotFound)
	}
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to find card %s: %w", id, err)
	}
	return card, nil
}

// InsertCard inserts a new card.
func (db *DB) InsertCard(card domain.Card) error {
	return insertCard(db.conn, card)
}

// SaveCard updates an existing card's content and scheduling state.
func (db *DB) SaveCard(card domain.Card) error {
	examples, err := encodeExamples(card.Examples)
	if err != nil {
		return err
	}
	_, err = db.conn.Exec(`
		UPDATE cards
		SET name = ?, word = ?, helper_text = ?, definition = ?, examples = ?,
		    state = ?, opened = ?, next_due = ?, k = ?
		WHERE id = ?
	`,
		card.Name,
		card.Word,
		card.HelperText,
		card.Definition,
		examples,
		int(card.State),
		nullTime(card.Opened),
		nullTime(card.NextDue),
		card.K,
		card.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}
	return nil
}

// DeckCards returns the deck's cards in insertion order.
func (db *DB) DeckCards(deckID uuid.UUID) ([]domain.Card, error) {
	rows, err := db.conn.Query(`
		SELECT id, deck_id, template_id, name, word, helper_text, definition, examples,
		       state, opened, next_due, k, created
		FROM cards WHERE deck_id = ?
		ORDER BY rowid
	`, deckID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row for deck %s: %w", deckID, err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// DeleteCard removes a card; success records cascade.
func (db *DB) DeleteCard(id uuid.UUID) error {
	_, err := db.conn.Exec(`DELETE FROM cards WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	return nil
}

// SuccessCount returns the number of success records for the card.
func (db *DB) SuccessCount(cardID uuid.UUID) (int, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM success_records WHERE card_id = ?
	`, cardID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count successes for card %s: %w", cardID, err)
	}
	return n, nil
}

// SucceededOn reports whether a success record exists for (card, day).
func (db *DB) SucceededOn(cardID uuid.UUID, day time.Time) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM success_records WHERE card_id = ? AND day = ?
	`, cardID.String(), dayKey(day)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check success for card %s: %w", cardID, err)
	}
	return n > 0, nil
}

// AddSuccess records a success for (card, day). The UNIQUE(card_id, day)
// constraint makes this idempotent: a duplicate insert is ignored and
// reported as false.
func (db *DB) AddSuccess(cardID uuid.UUID, day time.Time) (bool, error) {
	res, err := db.conn.Exec(`
		INSERT INTO success_records (card_id, day) VALUES (?, ?)
		ON CONFLICT(card_id, day) DO NOTHING
	`, cardID.String(), dayKey(day))
	if err != nil {
		return false, fmt.Errorf("failed to record success for card %s: %w", cardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected for card %s: %w", cardID, err)
	}
	return n > 0, nil
}

// LastSuccessDay returns the most recent success day for the card, or a zero
// time when it has none.
func (db *DB) LastSuccessDay(cardID uuid.UUID) (time.Time, error) {
	var raw sql.NullString
	err := db.conn.QueryRow(`
		SELECT MAX(day) FROM success_records WHERE card_id = ?
	`, cardID.String()).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last success for card %s: %w", cardID, err)
	}
	if !raw.Valid {
		return time.Time{}, nil
	}
	day, err := parseDay(raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse success day for card %s: %w", cardID, err)
	}
	return day, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (domain.Card, error) {
	var (
		card       domain.Card
		id, deckID string
		templateID sql.NullString
		examples   string
		state      int
		opened     sql.NullTime
		nextDue    sql.NullTime
	)
	err := row.Scan(
		&id,
		&deckID,
		&templateID,
		&card.Name,
		&card.Word,
		&card.HelperText,
		&card.Definition,
		&examples,
		&state,
		&opened,
		&nextDue,
		&card.K,
		&card.Created,
	)
	if err != nil {
		return domain.Card{}, err
	}
	if card.ID, err = uuid.Parse(id); err != nil {
		return domain.Card{}, err
	}
	if card.DeckID, err = uuid.Parse(deckID); err != nil {
		return domain.Card{}, err
	}
	if templateID.Valid {
		tid, err := uuid.Parse(templateID.String)
		if err != nil {
			return domain.Card{}, err
		}
		card.TemplateID = &tid
	}
	if card.Examples, err = decodeExamples(examples); err != nil {
		return domain.Card{}, err
	}
	card.State = domain.CardState(state)
	if opened.Valid {
		t := opened.Time
		card.Opened = &t
	}
	if nextDue.Valid {
		t := nextDue.Time
		card.NextDue = &t
	}
	return card, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertCard(ex execer, card domain.Card) error {
	examples, err := encodeExamples(card.Examples)
	if err != nil {
		return err
	}
	_, err = ex.Exec(`
		INSERT INTO cards (id, deck_id, template_id, name, word, helper_text, definition,
		                   examples, state, opened, next_due, k, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		card.ID.String(),
		card.DeckID.String(),
		nullUUID(card.TemplateID),
		card.Name,
		card.Word,
		card.HelperText,
		card.Definition,
		examples,
		int(card.State),
		nullTime(card.Opened),
		nullTime(card.NextDue),
		card.K,
		card.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.ID, err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}
