package srs

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/lldeck/lldeck/internal/domain"
)

// Outcome describes what a card action did. Guard failures are ordinary
// outcomes (OutcomeNoOp), never errors, so duplicate client submissions stay
// safe to retry.
type Outcome int

const (
	OutcomeNoOp      Outcome = iota // guard failed or action already applied
	OutcomeOpened                   // card opened for today
	OutcomeViewed                   // front viewed, Idle -> Viewed
	OutcomeRevealed                 // back shown; no state change
	OutcomeAdvanced                 // moved to Good; success not yet committed
	OutcomeScheduled                // success committed, next review scheduled
	OutcomeFailed                   // failure recorded, card back in circulation
)

var (
	outcomeNames = [...]string{
		OutcomeNoOp:      "noop",
		OutcomeOpened:    "opened",
		OutcomeViewed:    "viewed",
		OutcomeRevealed:  "revealed",
		OutcomeAdvanced:  "advanced",
		OutcomeScheduled: "scheduled",
		OutcomeFailed:    "failed",
	}
)

var (
	_ fmt.Stringer           = Outcome(0)
	_ encoding.TextMarshaler = Outcome(0)
	_ json.Marshaler         = Outcome(0)
)

func (o Outcome) isValid() bool {
	return o >= OutcomeNoOp && o <= OutcomeFailed
}

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	if o.isValid() {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.isValid() {
		return nil, fmt.Errorf("srs: invalid outcome: %d", int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// MarshalJSON implements json.Marshaler. Outcome serializes as a JSON string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	text, err := o.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// Result is the return value of every card action: what happened and the
// card as persisted afterwards.
type Result struct {
	Outcome Outcome     `json:"outcome"`
	Card    domain.Card `json:"card"`
}

func noop(card domain.Card) Result {
	return Result{Outcome: OutcomeNoOp, Card: card}
}
