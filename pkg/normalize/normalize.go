// Package normalize turns raw text into the canonical form used for all
// matching and indexing: case-folded, punctuation stripped, whitespace
// collapsed. The transform is deterministic and idempotent.
package normalize

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, drops every rune that is neither a letter,
// a digit nor whitespace (Unicode category aware, not ASCII-only), collapses
// whitespace runs to a single space and trims the ends.
// An all-punctuation or empty input yields the empty string.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			// Punctuation and symbols are dropped but do not break a
			// whitespace run on either side.
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Grams returns the distinct n-grams of length n in s, in first-seen order.
// Gram boundaries are rune boundaries, so multi-byte text grams correctly.
// Returns nil when s is shorter than n runes or n is not positive.
func Grams(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	runes := []rune(s)
	if len(runes) < n {
		return nil
	}
	seen := make(map[string]struct{}, len(runes)-n+1)
	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		g := string(runes[i : i+n])
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		grams = append(grams, g)
	}
	return grams
}
