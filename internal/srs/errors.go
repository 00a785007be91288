package srs

import "errors"

// Sentinel errors for the srs package and its store implementations.
// Check with errors.Is: errors.Is(err, srs.ErrNotFound).
var (
	// ErrNotFound is returned when a card, deck or profile does not exist.
	// Store implementations wrap this so callers can match it across layers.
	ErrNotFound = errors.New("srs: not found")
)
