package srs

import (
	"math"
	"testing"

	"github.com/lldeck/lldeck/internal/domain"
)

func TestRaise(t *testing.T) {
	testCases := []struct {
		name     string
		k        float64
		expected float64
	}{
		{"default moves one step", 2.5, 2.6},
		{"near the cap clamps", 4.95, 5.0},
		{"at the cap stays", 5.0, 5.0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Raise(tc.k); math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Raise(%v) = %v, expected %v", tc.k, got, tc.expected)
			}
		})
	}
}

func TestLower(t *testing.T) {
	testCases := []struct {
		name     string
		k        float64
		expected float64
	}{
		{"default moves one step", 2.5, 2.4},
		{"near the floor clamps", 1.05, 1.0},
		{"at the floor stays", 1.0, 1.0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Lower(tc.k); math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Lower(%v) = %v, expected %v", tc.k, got, tc.expected)
			}
		})
	}
}

func TestDoubleLowerRespectsFloor(t *testing.T) {
	// A failure applies two steps; from just above the floor both must clamp.
	if got := Lower(Lower(1.1)); math.Abs(got-domain.MinCoefficient) > 1e-9 {
		t.Errorf("Lower(Lower(1.1)) = %v, expected %v", got, domain.MinCoefficient)
	}
}
