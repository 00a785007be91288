package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// CardState is the scheduling lifecycle stage of a card.
type CardState int

const (
	StateIdle   CardState = iota // Never studied.
	StateViewed                  // Front seen at least once.
	StateAgain                   // Last review failed; back in circulation.
	StateGood                    // Last review succeeded.
)

var (
	stateNames = [...]string{
		StateIdle:   "idle",
		StateViewed: "viewed",
		StateAgain:  "again",
		StateGood:   "good",
	}
	stateByName = map[string]CardState{
		"idle":   StateIdle,
		"viewed": StateViewed,
		"again":  StateAgain,
		"good":   StateGood,
	}
)

var (
	_ fmt.Stringer             = CardState(0)
	_ encoding.TextMarshaler   = CardState(0)
	_ encoding.TextUnmarshaler = (*CardState)(nil)
	_ json.Marshaler           = CardState(0)
	_ json.Unmarshaler         = (*CardState)(nil)
)

func (s CardState) isValid() bool {
	return s >= StateIdle && s <= StateGood
}

// String returns the lowercase name of the state ("idle", "viewed", "again",
// "good"). For invalid values it returns "CardState(n)".
func (s CardState) String() string {
	if s.isValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s CardState) MarshalText() ([]byte, error) {
	if !s.isValid() {
		return nil, fmt.Errorf("domain: invalid card state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CardState) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("domain: invalid card state: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. CardState serializes as a JSON string.
func (s CardState) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *CardState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("domain: invalid card state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
