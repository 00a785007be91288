package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyStats is the per-deck, per-day review ledger: which cards were learned
// (success recorded), which failed, and the accumulated study time. One row
// exists per (deck, day); it is created lazily on the first event of the day.
type DailyStats struct {
	DeckID      uuid.UUID   `json:"deck_id"`
	Day         time.Time   `json:"day"` // date-only, UTC midnight
	SecondsGone int64       `json:"seconds_gone"`
	Learned     []uuid.UUID `json:"learned,omitempty"`
	Failed      []uuid.UUID `json:"failed,omitempty"`
}

// LearnedCount is the number of distinct cards learned this day.
func (s DailyStats) LearnedCount() int { return len(s.Learned) }

// FailedCount is the number of distinct cards failed this day.
func (s DailyStats) FailedCount() int { return len(s.Failed) }

// TotalReviews is learned plus failed.
func (s DailyStats) TotalReviews() int { return len(s.Learned) + len(s.Failed) }

// FailedNotLearnedCount counts cards that failed this day and were not also
// learned this day (set difference by card identity).
func (s DailyStats) FailedNotLearnedCount() int {
	n := 0
	for _, id := range s.Failed {
		if !s.HasLearned(id) {
			n++
		}
	}
	return n
}

// HasLearned reports whether the card appears in the day's learned set.
func (s DailyStats) HasLearned(cardID uuid.UUID) bool {
	for _, id := range s.Learned {
		if id == cardID {
			return true
		}
	}
	return false
}

// HasFailed reports whether the card appears in the day's failed set.
func (s DailyStats) HasFailed(cardID uuid.UUID) bool {
	for _, id := range s.Failed {
		if id == cardID {
			return true
		}
	}
	return false
}
