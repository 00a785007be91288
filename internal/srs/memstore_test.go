package srs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// memStore is an in-memory Store for engine tests. It mirrors the sqlite
// store's contract, including the idempotent success insert and the lazily
// created stats rows.
type memStore struct {
	cards     map[uuid.UUID]domain.Card
	order     []uuid.UUID
	decks     map[uuid.UUID]domain.Deck
	profiles  map[uuid.UUID]domain.Profile
	successes map[uuid.UUID]map[string]bool
	stats     map[string]*domain.DailyStats
}

func newMemStore() *memStore {
	return &memStore{
		cards:     make(map[uuid.UUID]domain.Card),
		decks:     make(map[uuid.UUID]domain.Deck),
		profiles:  make(map[uuid.UUID]domain.Profile),
		successes: make(map[uuid.UUID]map[string]bool),
		stats:     make(map[string]*domain.DailyStats),
	}
}

func (m *memStore) putCard(card domain.Card) {
	if _, ok := m.cards[card.ID]; !ok {
		m.order = append(m.order, card.ID)
	}
	m.cards[card.ID] = card
}

func dayStamp(t time.Time) string {
	return domain.DayOf(t).Format("2006-01-02")
}

func statKey(deckID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s|%s", deckID, dayStamp(day))
}

func (m *memStore) Card(id uuid.UUID) (domain.Card, error) {
	card, ok := m.cards[id]
	if !ok {
		return domain.Card{}, fmt.Errorf("card %s: %w", id, ErrNotFound)
	}
	return card, nil
}

func (m *memStore) SaveCard(card domain.Card) error {
	m.putCard(card)
	return nil
}

func (m *memStore) DeckCards(deckID uuid.UUID) ([]domain.Card, error) {
	var cards []domain.Card
	for _, id := range m.order {
		if c := m.cards[id]; c.DeckID == deckID {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (m *memStore) Deck(id uuid.UUID) (domain.Deck, error) {
	deck, ok := m.decks[id]
	if !ok {
		return domain.Deck{}, fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}
	return deck, nil
}

func (m *memStore) Profile(id uuid.UUID) (domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (m *memStore) SuccessCount(cardID uuid.UUID) (int, error) {
	return len(m.successes[cardID]), nil
}

func (m *memStore) SucceededOn(cardID uuid.UUID, day time.Time) (bool, error) {
	return m.successes[cardID][dayStamp(day)], nil
}

func (m *memStore) AddSuccess(cardID uuid.UUID, day time.Time) (bool, error) {
	if m.successes[cardID] == nil {
		m.successes[cardID] = make(map[string]bool)
	}
	if m.successes[cardID][dayStamp(day)] {
		return false, nil
	}
	m.successes[cardID][dayStamp(day)] = true
	return true, nil
}

func (m *memStore) statsRow(deckID uuid.UUID, day time.Time) *domain.DailyStats {
	key := statKey(deckID, day)
	if m.stats[key] == nil {
		m.stats[key] = &domain.DailyStats{DeckID: deckID, Day: domain.DayOf(day)}
	}
	return m.stats[key]
}

func (m *memStore) MarkLearned(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error {
	row := m.statsRow(deckID, day)
	if !row.HasLearned(cardID) {
		row.Learned = append(row.Learned, cardID)
	}
	return nil
}

func (m *memStore) MarkFailed(deckID uuid.UUID, day time.Time, cardID uuid.UUID) error {
	row := m.statsRow(deckID, day)
	if !row.HasFailed(cardID) {
		row.Failed = append(row.Failed, cardID)
	}
	return nil
}

func (m *memStore) AddStudyTime(deckID uuid.UUID, day time.Time, seconds int64) error {
	m.statsRow(deckID, day).SecondsGone += seconds
	return nil
}

func (m *memStore) DeckDailyStats(deckID uuid.UUID, day time.Time) (domain.DailyStats, error) {
	if row, ok := m.stats[statKey(deckID, day)]; ok {
		return *row, nil
	}
	return domain.DailyStats{DeckID: deckID, Day: domain.DayOf(day)}, nil
}
