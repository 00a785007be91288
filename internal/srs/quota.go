package srs

import (
	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// DailyNewCards selects the new cards that may still be introduced today for
// the deck, within the owner profile's daily aim.
//
// Consumed capacity is the sum of: cards learned today (success record
// dated today), cards opened today sitting in Good without a committed
// success (still learning), and cards failed today that were not also
// learned today. Candidates are the deck's Viewed cards followed by its Idle
// cards, each in insertion order; at most the remaining capacity is
// returned. Zero capacity yields an empty slice, never an error.
func (e *Engine) DailyNewCards(deckID uuid.UUID) ([]domain.Card, error) {
	deck, err := e.store.Deck(deckID)
	if err != nil {
		return nil, err
	}
	profile, err := e.store.Profile(deck.ProfileID)
	if err != nil {
		return nil, err
	}
	cards, err := e.store.DeckCards(deckID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	stats, err := e.store.DeckDailyStats(deckID, domain.DayOf(now))
	if err != nil {
		return nil, err
	}

	learning := 0
	for _, c := range cards {
		if c.OpenedOn(now) && c.State == domain.StateGood && !stats.HasLearned(c.ID) {
			learning++
		}
	}
	consumed := stats.LearnedCount() + learning + stats.FailedNotLearnedCount()
	remaining := profile.Aim - consumed
	if remaining <= 0 {
		return []domain.Card{}, nil
	}

	// Viewed cards ahead of Idle, insertion order within each.
	picked := []domain.Card{}
	for _, state := range []domain.CardState{domain.StateViewed, domain.StateIdle} {
		for _, c := range cards {
			if len(picked) == remaining {
				return picked, nil
			}
			if c.State == state {
				picked = append(picked, c)
			}
		}
	}
	return picked, nil
}
