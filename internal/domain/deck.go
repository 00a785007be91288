package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeckInfo is the contract shared by live decks and deck templates. The two
// are independent types, not variants of a base deck; everything that only
// needs a name, tags and a size works against this interface.
type DeckInfo interface {
	DeckName() string
	DeckTags() []string
	CardCount() int
}

// Deck is a live, studied collection of cards owned by one profile.
type Deck struct {
	ID         uuid.UUID  `json:"id"`
	ProfileID  uuid.UUID  `json:"profile_id"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"` // set when instantiated from a template
	Name       string     `json:"name"`
	Tags       []string   `json:"tags,omitempty"`
	Favorite   bool       `json:"favorite"`
	Cards      int        `json:"cards"` // populated on read, not stored
	Created    time.Time  `json:"created"`
}

func (d Deck) DeckName() string   { return d.Name }
func (d Deck) DeckTags() []string { return d.Tags }
func (d Deck) CardCount() int     { return d.Cards }

// DeckTemplate is a shareable blueprint: instantiating it produces a fresh
// deck whose cards start from the initial scheduling state.
type DeckTemplate struct {
	ID         uuid.UUID   `json:"id"`
	CreatorID  uuid.UUID   `json:"creator_id"`
	Name       string      `json:"name"`
	Tags       []string    `json:"tags,omitempty"`
	Public     bool        `json:"public"`
	SharedWith []uuid.UUID `json:"shared_with,omitempty"`
	Downloads  int         `json:"downloads"`
	Cards      int         `json:"cards"` // populated on read, not stored
	Created    time.Time   `json:"created"`
}

func (t DeckTemplate) DeckName() string   { return t.Name }
func (t DeckTemplate) DeckTags() []string { return t.Tags }
func (t DeckTemplate) CardCount() int     { return t.Cards }

// CardTemplate is the content of one card inside a deck template. It carries
// no scheduling state; that begins at instantiation.
type CardTemplate struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  uuid.UUID `json:"template_id"`
	Name        string    `json:"name"`
	Word        string    `json:"word"`
	HelperText  string    `json:"helper_text,omitempty"`
	Definition  string    `json:"definition"`
	Examples    []string  `json:"examples,omitempty"`
	Fingerprint string    `json:"fingerprint"` // content hash, used for import dedupe
}
