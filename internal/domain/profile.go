package domain

import (
	"regexp"

	"github.com/google/uuid"
)

// Profile holds the user-facing learning settings the engine reads. Aim is
// the daily target count of newly learned cards; the quota selector treats it
// as a read-only input.
type Profile struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Aim     int       `json:"aim" validate:"gte=0"`
	About   string    `json:"about,omitempty"`
	Private bool      `json:"private"`
}

var tagName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,15}$`)

// ValidTag reports whether name is an acceptable deck tag after
// normalization: 1-16 chars of lowercase letters, digits and hyphens.
func ValidTag(name string) bool {
	return tagName.MatchString(name)
}
