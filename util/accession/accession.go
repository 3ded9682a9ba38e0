// Package accession canonicalizes free-form inventory identifiers. Stock
// sheets arrive with tokens like "ACC-42", " 0042 " or "42/B"; the catalog
// stores one canonical zero-padded key per copy.
package accession

import (
	"errors"
	"strings"

	"github.com/Vaibhavp809/libsync-sub001/model"
)

// Width is the canonical key width. Collections larger than 999999 keep their
// full digit string unpadded.
const Width = 6

var ErrEmpty = errors.New("accession empty after normalization")

// Normalize strips every non-digit rune and left-pads the rest with zeros to
// Width. Inputs longer than Width digits are returned as-is, never truncated.
// Pure and idempotent: normalizing a canonical key returns it unchanged.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrEmpty
	}
	if len(digits) >= Width {
		return digits, nil
	}
	return strings.Repeat("0", Width-len(digits)) + digits, nil
}

// ResolveCondition maps a free-text condition word to the closed condition
// set. Matching is case-insensitive substring, so "DAMAGED", "water damage"
// and "dmg: lost cover" all resolve. Anything unrecognized counts as a plain
// successful verification.
func ResolveCondition(raw string) model.Condition {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "damag") || strings.Contains(s, "dmg"):
		return model.ConditionDamaged
	case strings.Contains(s, "lost") || strings.Contains(s, "missing"):
		return model.ConditionLost
	default:
		return model.ConditionVerified
	}
}
