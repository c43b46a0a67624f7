package validation

import (
	"strings"
	"unicode"
)

// phraseSet is a list of phrases prepared for case-insensitive matching
type phraseSet struct {
	original   []string
	normalized []string
}

func newPhraseSet(phrases []string) phraseSet {
	ps := phraseSet{}
	for _, phrase := range phrases {
		normalized := strings.ToLower(phrase)
		if strings.TrimSpace(normalized) == "" {
			continue
		}
		ps.original = append(ps.original, phrase)
		ps.normalized = append(ps.normalized, normalized)
	}
	return ps
}

// findIn returns the phrases contained in lowered text, in table order.
// Each phrase is reported once regardless of how often it occurs.
func (ps phraseSet) findIn(lowered string) []string {
	var found []string
	for i, phrase := range ps.normalized {
		if strings.Contains(lowered, phrase) {
			found = append(found, ps.original[i])
		}
	}
	return found
}

// containsAny reports whether lowered text contains at least one phrase
func (ps phraseSet) containsAny(lowered string) bool {
	for _, phrase := range ps.normalized {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// countOccurrences sums the non-overlapping occurrences of every phrase.
// The text is matched as-is.
func (ps phraseSet) countOccurrences(text string) int {
	total := 0
	for _, phrase := range ps.original {
		total += strings.Count(text, phrase)
	}
	return total
}

// words splits lowered text into letter/digit tokens
func words(lowered string) []string {
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
