// Package fingerprint derives stable content hashes for cards. Two cards
// whose content differs only in case, surrounding whitespace or line endings
// fingerprint identically, which is what import reconciliation keys on.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize joins the card's content fields after cleaning each part: trim,
// lowercase, unify line endings. Fields are newline-separated so adjacent
// fields cannot run together.
func Normalize(word, helper, definition string, examples []string) string {
	parts := make([]string, 0, 3+len(examples))
	parts = append(parts, clean(word), clean(helper), clean(definition))
	for _, ex := range examples {
		parts = append(parts, clean(ex))
	}
	return strings.Join(parts, "\n")
}

// Card returns the SHA-256 of the normalized content as a hex string.
func Card(word, helper, definition string, examples []string) string {
	sum := sha256.Sum256([]byte(Normalize(word, helper, definition, examples)))
	return fmt.Sprintf("%x", sum)
}

func clean(part string) string {
	p := strings.ToLower(part)
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\r\n", "\n")
	return p
}
