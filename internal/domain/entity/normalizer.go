package entity

import (
	"strings"
	"unicode"
)

// legalSuffixes are corporate-form tokens stripped from the end of a name
// during normalization.  Two names differing only by such a suffix must
// produce the same normalization key ("Acme Co." and "Acme Incorporated"
// both normalize to "acme").
var legalSuffixes = map[string]bool{
	"inc":          true,
	"llc":          true,
	"ltd":          true,
	"corp":         true,
	"co":           true,
	"gmbh":         true,
	"sa":           true,
	"plc":          true,
	"limited":      true,
	"corporation":  true,
	"incorporated": true,
	"company":      true,
}

// Normalize canonicalizes a raw name into its normalization key: lower-cased,
// punctuation replaced by spaces, whitespace runs collapsed, and trailing
// legal-suffix tokens removed.  Deterministic, total, and idempotent; the
// empty string normalizes to the empty string.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	// Strip trailing corporate-form tokens, but never down to nothing:
	// a name that consists solely of suffix tokens keeps its final token
	// so it still has a usable key.
	for len(tokens) > 1 && legalSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}
