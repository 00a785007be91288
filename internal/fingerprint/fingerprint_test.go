package fingerprint

import "testing"

func TestNormalize(t *testing.T) {
	got := Normalize("  Ephemeral \r\n", "Adjective", "Lasting a short time.", []string{" Example one. "})
	expected := "ephemeral\nadjective\nlasting a short time.\nexample one."
	if got != expected {
		t.Errorf("Expected normalized string %q, but got %q", expected, got)
	}
}

func TestCard(t *testing.T) {
	t.Run("fingerprint is deterministic", func(t *testing.T) {
		a := Card("word", "h", "def", []string{"e"})
		b := Card("word", "h", "def", []string{"e"})
		if a != b {
			t.Error("Expected fingerprints for identical content to be the same")
		}
	})

	t.Run("normalization produces same fingerprint", func(t *testing.T) {
		a := Card("  What is Go? ", "", "A programming language.", nil)
		b := Card("what is go?", "", "A programming language.", nil)
		if a != b {
			t.Error("Expected fingerprints to be the same after normalization, but they were different")
		}
	})

	t.Run("different content has different fingerprints", func(t *testing.T) {
		a := Card("card 1", "", "", nil)
		b := Card("card 2", "", "", nil)
		if a == b {
			t.Error("Expected fingerprints for different content to be different")
		}
	})

	t.Run("field boundaries are preserved", func(t *testing.T) {
		a := Card("ab", "c", "", nil)
		b := Card("a", "bc", "", nil)
		if a == b {
			t.Error("Expected adjacent fields not to run together")
		}
	})
}
