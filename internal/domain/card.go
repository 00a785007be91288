package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bounds for the per-card difficulty coefficient. The coefficient drives
// spaced-repetition interval growth and never leaves [MinCoefficient,
// MaxCoefficient].
const (
	MinCoefficient     = 1.0
	MaxCoefficient     = 5.0
	DefaultCoefficient = 2.5
)

// Card is a single learnable unit: front content (a word with an optional
// helper), back content (definition and usage examples) and the scheduling
// state the review engine operates on.
type Card struct {
	ID         uuid.UUID  `json:"id"`
	DeckID     uuid.UUID  `json:"deck_id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"` // provenance when instantiated from a template

	Name       string   `json:"name"`
	Word       string   `json:"word"`
	HelperText string   `json:"helper_text,omitempty"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`

	State   CardState  `json:"state"`
	Opened  *time.Time `json:"opened,omitempty"`   // set by the open action, once per calendar day
	NextDue *time.Time `json:"next_due,omitempty"` // set only when a success commits in Good state
	K       float64    `json:"k"`                  // difficulty coefficient, [1.0, 5.0]

	Created time.Time `json:"created"`
}

// NewCard returns a card in its initial scheduling state.
func NewCard(deckID uuid.UUID, name string) Card {
	return Card{
		ID:      uuid.New(),
		DeckID:  deckID,
		Name:    name,
		State:   StateIdle,
		K:       DefaultCoefficient,
		Created: time.Now(),
	}
}

// OpenedOn reports whether the card was opened on the calendar day of t.
func (c Card) OpenedOn(t time.Time) bool {
	return c.Opened != nil && SameDay(*c.Opened, t)
}

// DueBy reports whether the card's next review date has arrived by t.
// Cards without a scheduled date are never due.
func (c Card) DueBy(t time.Time) bool {
	return c.NextDue != nil && !c.NextDue.After(DayOf(t))
}

// SuccessRecord marks one successful review of a card on one calendar day.
// At most one record exists per (card, day); records are immutable.
type SuccessRecord struct {
	CardID uuid.UUID `json:"card_id"`
	Day    time.Time `json:"day"` // date-only, UTC midnight
}

// DayOf truncates t to its calendar day (midnight UTC).
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}
