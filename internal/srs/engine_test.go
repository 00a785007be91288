package srs

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// fixture wires an engine over a memStore with a settable clock and one
// deck, profile and card.
type fixture struct {
	store  *memStore
	engine *Engine
	now    time.Time
	card   uuid.UUID
	deck   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: newMemStore(),
		now:   time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC),
	}
	f.engine = New(f.store, func() time.Time { return f.now }, nil)

	profileID := uuid.New()
	f.store.profiles[profileID] = domain.Profile{ID: profileID, Name: "tester", Aim: 10}
	f.deck = uuid.New()
	f.store.decks[f.deck] = domain.Deck{ID: f.deck, ProfileID: profileID, Name: "vocab"}

	card := domain.NewCard(f.deck, "ephemeral")
	f.store.putCard(card)
	f.card = card.ID
	return f
}

func (f *fixture) mustCard(t *testing.T) domain.Card {
	t.Helper()
	card, err := f.store.Card(f.card)
	if err != nil {
		t.Fatalf("card lookup failed: %v", err)
	}
	return card
}

func (f *fixture) do(t *testing.T, action func(uuid.UUID) (Result, error), want Outcome) Result {
	t.Helper()
	res, err := action(f.card)
	if err != nil {
		t.Fatalf("action returned an unexpected error: %v", err)
	}
	if res.Outcome != want {
		t.Fatalf("Expected outcome %s, but got %s", want, res.Outcome)
	}
	return res
}

func TestOpen(t *testing.T) {
	t.Run("first open sets the opened timestamp", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		card := f.mustCard(t)
		if card.Opened == nil || !card.Opened.Equal(f.now) {
			t.Errorf("Expected opened to be %v, but got %v", f.now, card.Opened)
		}
	})

	t.Run("reopening the same day is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.now = f.now.Add(2 * time.Hour)
		f.do(t, f.engine.Open, OutcomeNoOp)
	})

	t.Run("opening again the next day updates the timestamp", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.now = f.now.AddDate(0, 0, 1)
		f.do(t, f.engine.Open, OutcomeOpened)
		card := f.mustCard(t)
		if !domain.SameDay(*card.Opened, f.now) {
			t.Error("Expected opened to move to the new day")
		}
	})

	t.Run("unknown card reports ErrNotFound", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.engine.Open(uuid.New()); err == nil {
			t.Error("Expected an error for an unknown card")
		}
	})
}

func TestViewFront(t *testing.T) {
	t.Run("idle card opened today moves to viewed", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		if got := f.mustCard(t).State; got != domain.StateViewed {
			t.Errorf("Expected state viewed, but got %s", got)
		}
	})

	t.Run("unopened card stays idle", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.ViewFront, OutcomeNoOp)
		if got := f.mustCard(t).State; got != domain.StateIdle {
			t.Errorf("Expected state idle, but got %s", got)
		}
	})

	t.Run("viewing twice is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.ViewFront, OutcomeNoOp)
	})
}

func TestViewBack(t *testing.T) {
	f := newFixture(t)
	f.do(t, f.engine.ViewBack, OutcomeNoOp) // idle, unopened

	f.do(t, f.engine.Open, OutcomeOpened)
	f.do(t, f.engine.ViewBack, OutcomeNoOp) // still idle

	f.do(t, f.engine.ViewFront, OutcomeViewed)
	before := f.mustCard(t).State
	f.do(t, f.engine.ViewBack, OutcomeRevealed)
	if got := f.mustCard(t).State; got != before {
		t.Errorf("Expected viewing the back to leave state %s, but got %s", before, got)
	}
}

func TestMarkSuccess(t *testing.T) {
	t.Run("requires the card to be opened today", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.MarkSuccess, OutcomeNoOp)
	})

	t.Run("first success of the day only advances to good", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)

		card := f.mustCard(t)
		if card.State != domain.StateGood {
			t.Errorf("Expected state good, but got %s", card.State)
		}
		if card.NextDue != nil {
			t.Error("Expected no next due date before the success commits")
		}
		if n, _ := f.store.SuccessCount(f.card); n != 0 {
			t.Errorf("Expected no success record yet, but got %d", n)
		}
	})

	t.Run("success on a good card commits the record and schedules", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)

		card := f.mustCard(t)
		// First success: exponent 0, so the interval is one day regardless
		// of the coefficient.
		expectedDue := domain.DayOf(f.now).AddDate(0, 0, 1)
		if card.NextDue == nil || !card.NextDue.Equal(expectedDue) {
			t.Errorf("Expected next due %v, but got %v", expectedDue, card.NextDue)
		}
		if math.Abs(card.K-2.6) > 1e-9 {
			t.Errorf("Expected k to rise to 2.6, but got %.2f", card.K)
		}
		if n, _ := f.store.SuccessCount(f.card); n != 1 {
			t.Errorf("Expected exactly one success record, but got %d", n)
		}
	})

	t.Run("duplicate submissions produce no extra record", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)
		f.do(t, f.engine.MarkSuccess, OutcomeNoOp)
		f.do(t, f.engine.MarkSuccess, OutcomeNoOp)

		if n, _ := f.store.SuccessCount(f.card); n != 1 {
			t.Errorf("Expected exactly one success record, but got %d", n)
		}
		if got := f.mustCard(t).K; math.Abs(got-2.6) > 1e-9 {
			t.Errorf("Expected k unchanged at 2.6, but got %.2f", got)
		}
	})

	t.Run("commit records the day's statistics", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		f.now = f.now.Add(90 * time.Second)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)

		stats, _ := f.store.DeckDailyStats(f.deck, f.now)
		if stats.LearnedCount() != 1 {
			t.Errorf("Expected 1 learned card, but got %d", stats.LearnedCount())
		}
		if stats.SecondsGone != 90 {
			t.Errorf("Expected 90 seconds of study time, but got %d", stats.SecondsGone)
		}
	})

	t.Run("second commit uses the grown exponent", func(t *testing.T) {
		f := newFixture(t)
		// Day one: advance and commit.
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)

		// Next day: the card is still Good, one prior success.
		f.now = f.now.AddDate(0, 0, 1)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)

		card := f.mustCard(t)
		// k rose 2.5 -> 2.6 -> 2.7; floor(2.7^1) = 2 days out.
		expectedDue := domain.DayOf(f.now).AddDate(0, 0, 2)
		if card.NextDue == nil || !card.NextDue.Equal(expectedDue) {
			t.Errorf("Expected next due %v, but got %v", expectedDue, card.NextDue)
		}
	})
}

func TestMarkFail(t *testing.T) {
	t.Run("idle card is untouched", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.MarkFail, OutcomeNoOp)

		card := f.mustCard(t)
		if card.State != domain.StateIdle {
			t.Errorf("Expected state idle, but got %s", card.State)
		}
		if card.K != domain.DefaultCoefficient {
			t.Errorf("Expected k unchanged at %.1f, but got %.2f", domain.DefaultCoefficient, card.K)
		}
	})

	t.Run("unopened card is untouched", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.now = f.now.AddDate(0, 0, 1)
		f.do(t, f.engine.MarkFail, OutcomeNoOp)
	})

	t.Run("failure drops k twice and moves to again", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkFail, OutcomeFailed)

		card := f.mustCard(t)
		if card.State != domain.StateAgain {
			t.Errorf("Expected state again, but got %s", card.State)
		}
		if math.Abs(card.K-2.3) > 1e-9 {
			t.Errorf("Expected k to drop to 2.3, but got %.2f", card.K)
		}
		stats, _ := f.store.DeckDailyStats(f.deck, f.now)
		if stats.FailedCount() != 1 {
			t.Errorf("Expected 1 failed card, but got %d", stats.FailedCount())
		}
	})

	t.Run("failing after today's success is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		f.do(t, f.engine.MarkSuccess, OutcomeScheduled)
		f.do(t, f.engine.MarkFail, OutcomeNoOp)

		if got := f.mustCard(t).State; got != domain.StateGood {
			t.Errorf("Expected state good, but got %s", got)
		}
	})

	t.Run("failed card recovers through good, never idle", func(t *testing.T) {
		f := newFixture(t)
		f.do(t, f.engine.Open, OutcomeOpened)
		f.do(t, f.engine.ViewFront, OutcomeViewed)
		f.do(t, f.engine.MarkFail, OutcomeFailed)
		f.do(t, f.engine.MarkSuccess, OutcomeAdvanced)
		if got := f.mustCard(t).State; got != domain.StateGood {
			t.Errorf("Expected state good, but got %s", got)
		}
	})
}

// TestCoefficientStaysBounded drives a card through an arbitrary mix of
// failures and successes across many days and checks the coefficient
// invariant after every action.
func TestCoefficientStaysBounded(t *testing.T) {
	f := newFixture(t)
	check := func() {
		t.Helper()
		k := f.mustCard(t).K
		if k < domain.MinCoefficient || k > domain.MaxCoefficient {
			t.Fatalf("Coefficient %f left [%f, %f]", k, domain.MinCoefficient, domain.MaxCoefficient)
		}
	}

	// Hammer failures far past the floor.
	f.do(t, f.engine.Open, OutcomeOpened)
	f.do(t, f.engine.ViewFront, OutcomeViewed)
	for i := 0; i < 20; i++ {
		if _, err := f.engine.MarkFail(f.card); err != nil {
			t.Fatalf("MarkFail failed: %v", err)
		}
		check()
	}

	// Then successes far past the cap, one commit per day.
	for i := 0; i < 40; i++ {
		f.now = f.now.AddDate(0, 0, 1)
		f.do(t, f.engine.Open, OutcomeOpened)
		if _, err := f.engine.MarkSuccess(f.card); err != nil {
			t.Fatalf("MarkSuccess failed: %v", err)
		}
		if _, err := f.engine.MarkSuccess(f.card); err != nil {
			t.Fatalf("MarkSuccess failed: %v", err)
		}
		check()
	}

	if k := f.mustCard(t).K; k != domain.MaxCoefficient {
		t.Errorf("Expected k to saturate at %.1f, but got %.2f", domain.MaxCoefficient, k)
	}
}
