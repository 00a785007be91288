package domain

import (
	"encoding/json"
	"testing"
)

func TestCardStateString(t *testing.T) {
	testCases := []struct {
		state    CardState
		expected string
	}{
		{StateIdle, "idle"},
		{StateViewed, "viewed"},
		{StateAgain, "again"},
		{StateGood, "good"},
		{CardState(42), "CardState(42)"},
	}
	for _, tc := range testCases {
		if got := tc.state.String(); got != tc.expected {
			t.Errorf("String() = %q, expected %q", got, tc.expected)
		}
	}
}

func TestCardStateJSON(t *testing.T) {
	t.Run("round-trips through JSON", func(t *testing.T) {
		for _, state := range []CardState{StateIdle, StateViewed, StateAgain, StateGood} {
			data, err := json.Marshal(state)
			if err != nil {
				t.Fatalf("Marshal(%s) failed: %v", state, err)
			}
			var back CardState
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", data, err)
			}
			if back != state {
				t.Errorf("Round-trip changed %s into %s", state, back)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		var s CardState
		if err := json.Unmarshal([]byte(`"sideways"`), &s); err == nil {
			t.Error("Expected an error for an unknown state name")
		}
	})

	t.Run("rejects invalid values on marshal", func(t *testing.T) {
		if _, err := json.Marshal(CardState(9)); err == nil {
			t.Error("Expected an error for an out-of-range state")
		}
	})
}
