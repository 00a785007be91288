// Package srs is the spaced-repetition core: the card state machine, the
// difficulty coefficient, the review scheduler, the daily quota selector and
// the statistics aggregator. It drives a Store for persistence and takes its
// notion of "now" from an injected clock, so every computation is
// deterministic under test.
//
// Card lifecycle: Idle -> Viewed -> Good <-> Again. A failed card returns to
// circulation through Again, never back to Idle. Marking success is a
// two-step commit: the first success of the day moves the card to Good; a
// second success on a Good card creates the day's success record, adjusts the
// coefficient and schedules the next review.
package srs

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lldeck/lldeck/internal/domain"
)

// Clock supplies the current time. The engine never reads the system clock
// directly.
type Clock func() time.Time

// Engine coordinates card actions against the store.
type Engine struct {
	store Store
	now   Clock
	log   *slog.Logger
}

// New returns an engine over the given store. A nil clock falls back to
// time.Now; a nil logger discards events.
func New(store Store, clock Clock, log *slog.Logger) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: store, now: clock, log: log}
}

// Open marks the card as opened for today. Opening happens at most once per
// calendar day and never changes the card's state; re-opening an already
// open card is a no-op.
func (e *Engine) Open(cardID uuid.UUID) (Result, error) {
	card, err := e.store.Card(cardID)
	if err != nil {
		return Result{}, err
	}
	now := e.now()
	if card.OpenedOn(now) {
		return noop(card), nil
	}
	card.Opened = &now
	if err := e.store.SaveCard(card); err != nil {
		return Result{}, err
	}
	e.log.Info("card opened", "card", card.ID, "deck", card.DeckID)
	return Result{Outcome: OutcomeOpened, Card: card}, nil
}

// ViewFront handles the "view front" action: an Idle card opened today moves
// to Viewed. Any other combination is a no-op, not an error.
func (e *Engine) ViewFront(cardID uuid.UUID) (Result, error) {
	card, err := e.store.Card(cardID)
	if err != nil {
		return Result{}, err
	}
	if card.State != domain.StateIdle || !card.OpenedOn(e.now()) {
		return noop(card), nil
	}
	card.State = domain.StateViewed
	if err := e.store.SaveCard(card); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeViewed, Card: card}, nil
}

// ViewBack handles the "view back" action. Revealing the answer never
// changes state by itself; it only precedes a success or fail action.
func (e *Engine) ViewBack(cardID uuid.UUID) (Result, error) {
	card, err := e.store.Card(cardID)
	if err != nil {
		return Result{}, err
	}
	if card.State == domain.StateIdle || !card.OpenedOn(e.now()) {
		return noop(card), nil
	}
	return Result{Outcome: OutcomeRevealed, Card: card}, nil
}

// MarkSuccess handles the "mark success" action. Guards: the card must be
// opened today and must not already have a success record for today
// (duplicate submissions are idempotent no-ops). A card not yet in Good
// moves to Good without a record; a Good card commits the success: the
// day's record is created, the coefficient rises one step, the next review
// date is computed from the raised coefficient and the pre-commit success
// count, and the day's statistics are updated.
func (e *Engine) MarkSuccess(cardID uuid.UUID) (Result, error) {
	card, err := e.store.Card(cardID)
	if err != nil {
		return Result{}, err
	}
	now := e.now()
	if !card.OpenedOn(now) {
		return noop(card), nil
	}
	day := domain.DayOf(now)
	succeeded, err := e.store.SucceededOn(card.ID, day)
	if err != nil {
		return Result{}, err
	}
	if succeeded {
		return noop(card), nil
	}

	if card.State != domain.StateGood {
		card.State = domain.StateGood
		if err := e.store.SaveCard(card); err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeAdvanced, Card: card}, nil
	}

	prior, err := e.store.SuccessCount(card.ID)
	if err != nil {
		return Result{}, err
	}
	created, err := e.store.AddSuccess(card.ID, day)
	if err != nil {
		return Result{}, err
	}
	if !created {
		// Lost a same-day race; the uniqueness constraint is the backstop.
		return noop(card), nil
	}

	card.K = Raise(card.K)
	due := NextDue(now, card.K, prior)
	card.NextDue = &due
	if err := e.store.SaveCard(card); err != nil {
		return Result{}, err
	}
	if err := e.recordSuccess(card, now); err != nil {
		return Result{}, err
	}
	e.log.Info("success committed",
		"card", card.ID, "deck", card.DeckID, "k", card.K, "next_due", due)
	return Result{Outcome: OutcomeScheduled, Card: card}, nil
}

// MarkFail handles the "mark fail" action. Guards: the card must not be
// Idle, must be opened today, and must not have succeeded today. On fire the
// coefficient drops two steps, the card moves to Again and the day's failure
// statistics are updated.
func (e *Engine) MarkFail(cardID uuid.UUID) (Result, error) {
	card, err := e.store.Card(cardID)
	if err != nil {
		return Result{}, err
	}
	now := e.now()
	if card.State == domain.StateIdle || !card.OpenedOn(now) {
		return noop(card), nil
	}
	succeeded, err := e.store.SucceededOn(card.ID, domain.DayOf(now))
	if err != nil {
		return Result{}, err
	}
	if succeeded {
		return noop(card), nil
	}

	card.K = Lower(Lower(card.K))
	card.State = domain.StateAgain
	if err := e.store.SaveCard(card); err != nil {
		return Result{}, err
	}
	if err := e.recordFailure(card, now); err != nil {
		return Result{}, err
	}
	e.log.Info("failure recorded", "card", card.ID, "deck", card.DeckID, "k", card.K)
	return Result{Outcome: OutcomeFailed, Card: card}, nil
}
