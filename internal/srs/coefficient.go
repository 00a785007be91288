package srs

import "github.com/lldeck/lldeck/internal/domain"

// Raise moves the difficulty coefficient one reward step up, capped at the
// upper bound. Each call is exactly one step; a success commit calls it once.
func Raise(k float64) float64 {
	k += coefficientStep
	if k > domain.MaxCoefficient {
		return domain.MaxCoefficient
	}
	return k
}

// Lower moves the difficulty coefficient one penalty step down, floored at
// the lower bound. A failure calls it twice.
func Lower(k float64) float64 {
	k -= coefficientStep
	if k < domain.MinCoefficient {
		return domain.MinCoefficient
	}
	return k
}

const coefficientStep = 0.1
