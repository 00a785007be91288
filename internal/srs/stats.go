package srs

import (
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// recordSuccess adds the card to today's learned set and accumulates the
// elapsed study time. The store creates the day's row atomically on first
// use; adding an already-learned card is a set no-op.
func (e *Engine) recordSuccess(card domain.Card, now time.Time) error {
	day := domain.DayOf(now)
	if err := e.store.MarkLearned(card.DeckID, day, card.ID); err != nil {
		return err
	}
	return e.store.AddStudyTime(card.DeckID, day, elapsedSeconds(card, now))
}

// recordFailure mirrors recordSuccess for the failed set.
func (e *Engine) recordFailure(card domain.Card, now time.Time) error {
	day := domain.DayOf(now)
	if err := e.store.MarkFailed(card.DeckID, day, card.ID); err != nil {
		return err
	}
	return e.store.AddStudyTime(card.DeckID, day, elapsedSeconds(card, now))
}

// elapsedSeconds is the study time between the card's open and now, zero
// when the card was never opened or the clock went backwards.
func elapsedSeconds(card domain.Card, now time.Time) int64 {
	if card.Opened == nil {
		return 0
	}
	s := int64(now.Sub(*card.Opened).Seconds())
	if s < 0 {
		return 0
	}
	return s
}

// DailyStats returns the deck's statistics row for the calendar day of t.
// Days without events yield an empty row, not an error.
func (e *Engine) DailyStats(deckID uuid.UUID, t time.Time) (domain.DailyStats, error) {
	return e.store.DeckDailyStats(deckID, domain.DayOf(t))
}
