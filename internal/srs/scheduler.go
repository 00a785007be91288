package srs

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// Interval returns the spacing interval in days for a success commit:
// floor(k^n), where n is the card's success count before the new record.
// Higher coefficients and more prior successes push the next review further
// out; the first success (n=0) always yields one day.
func Interval(k float64, priorSuccesses int) int {
	days := int(math.Floor(math.Pow(k, float64(priorSuccesses))))
	if days < 1 {
		return 1
	}
	return days
}

// NextDue returns the next review date: the interval added to the calendar
// day of now.
func NextDue(now time.Time, k float64, priorSuccesses int) time.Time {
	return domain.DayOf(now).AddDate(0, 0, Interval(k, priorSuccesses))
}

// DueCards returns the deck's cards whose review date has arrived: state Good
// with NextDue on or before today. An empty deck or a deck with nothing due
// yields an empty slice.
func (e *Engine) DueCards(deckID uuid.UUID) ([]domain.Card, error) {
	cards, err := e.store.DeckCards(deckID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	due := []domain.Card{}
	for _, c := range cards {
		if c.State == domain.StateGood && c.DueBy(now) {
			due = append(due, c)
		}
	}
	return due, nil
}

// NewCards returns the deck's cards that have not entered the review cycle:
// state Idle or Viewed.
func (e *Engine) NewCards(deckID uuid.UUID) ([]domain.Card, error) {
	cards, err := e.store.DeckCards(deckID)
	if err != nil {
		return nil, err
	}
	fresh := []domain.Card{}
	for _, c := range cards {
		if c.State == domain.StateIdle || c.State == domain.StateViewed {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}

// LearningCards returns the deck's cards that need repetition soon: failed
// cards (Again), plus cards marked Good today whose success has not been
// committed yet (no success record for today).
func (e *Engine) LearningCards(deckID uuid.UUID) ([]domain.Card, error) {
	cards, err := e.store.DeckCards(deckID)
	if err != nil {
		return nil, err
	}
	day := domain.DayOf(e.now())
	stats, err := e.store.DeckDailyStats(deckID, day)
	if err != nil {
		return nil, err
	}
	learning := []domain.Card{}
	for _, c := range cards {
		switch {
		case c.State == domain.StateAgain:
			learning = append(learning, c)
		case c.State == domain.StateGood && !stats.HasLearned(c.ID):
			learning = append(learning, c)
		}
	}
	return learning, nil
}
