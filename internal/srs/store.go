package srs

import (
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// Store is the persistence collaborator the engine drives. The engine owns
// the scheduling semantics; the store owns atomicity: the per-(card, day)
// success uniqueness and the per-(deck, day) stats row get-or-create are its
// constraints, not the engine's.
//
// Missing cards, decks and profiles are reported with an error wrapping
// ErrNotFound. Day arguments are date-only values as produced by
// domain.DayOf.
type Store interface {
	Card(id uuid.UUID) (domain.Card, error)
	SaveCard(card domain.Card) error
	DeckCards(deckID uuid.UUID) ([]domain.Card, error)

	Deck(id uuid.UUID) (domain.Deck, error)
	Profile(id uuid.UUID) (domain.Profile, error)

	// SuccessCount returns the number of success records for the card.
	SuccessCount(cardID uuid.UUID) (int, error)
	// SucceededOn reports whether a success record exists for (card, day).
	SucceededOn(cardID uuid.UUID, day time.Time) (bool, error)
	// AddSuccess records a success for (card, day). It reports false, without
	// error, when a record for that day already exists.
	AddSuccess(cardID uuid.UUID, day time.Time) (bool, error)

	// MarkLearned and MarkFailed add the card to the day's learned/failed set,
	// creating the stats row atomically if this is the day's first event.
	// Adding a card already in the set is a no-op.
	MarkLearned(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error
	MarkFailed(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error
	// AddStudyTime accumulates elapsed study seconds onto the day's stats row,
	// creating it if absent.
	AddStudyTime(deckID uuid.UUID, day time.Time, seconds int64) error
	// DeckDailyStats returns the stats row for (deck, day), or an empty row
	// (zero counts, no error) when no event has happened that day.
	DeckDailyStats(deckID uuid.UUID, day time.Time) (domain.DailyStats, error)
}
