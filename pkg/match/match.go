// Package match scores a normalized query against one candidate sentence.
// The policy is an approximate prefix match: the query is aligned against a
// window of the candidate's normalized text and at most one edit operation
// (substitution, insertion or deletion) is tolerated. Matched characters
// earn points, an edit costs a position-dependent penalty, and anything
// needing more than one edit is rejected outright.
package match

import (
	"strings"
	"unicode/utf8"
)

// Penalty tables, indexed by the 1-based position of the edit within the
// query. An early edit invalidates most of the proposed completion, so it
// costs more than one near the end. The exact magnitudes are a calibration
// parameter; they are package variables rather than burned-in literals so
// callers can retune them.
var (
	// ReplacePenalties applies to a single substituted character.
	ReplacePenalties = [...]int{5, 4, 3, 2}
	// ReplacePenaltyTail applies to substitutions past position 4.
	ReplacePenaltyTail = 1
	// GapPenalties applies to a single inserted or deleted character.
	GapPenalties = [...]int{10, 8, 6, 4}
	// GapPenaltyTail applies to insertions/deletions past position 4.
	GapPenaltyTail = 2
)

// MatchedWeight is the score earned per matched character.
const MatchedWeight = 2

// Match describes the best alignment of a query inside a candidate's
// normalized text. Start and Len are rune offsets into that text.
type Match struct {
	Score int
	Start int
	Len   int
}

func replacePenalty(pos int) int {
	if pos >= 1 && pos <= len(ReplacePenalties) {
		return ReplacePenalties[pos-1]
	}
	return ReplacePenaltyTail
}

func gapPenalty(pos int) int {
	if pos >= 1 && pos <= len(GapPenalties) {
		return GapPenalties[pos-1]
	}
	return GapPenaltyTail
}

// Best finds the highest-scoring alignment of normQuery inside normText
// under the one-edit budget. An exact occurrence (zero edits) dominates and
// short-circuits the edit search. Among equal scores the leftmost window
// wins, keeping results deterministic. Returns false when the query cannot
// be aligned within one edit or no characters match at all.
func Best(normQuery, normText string) (Match, bool) {
	if normQuery == "" || normText == "" {
		return Match{}, false
	}

	// Fast path: leftmost exact substring, zero edits.
	if i := strings.Index(normText, normQuery); i >= 0 {
		return Match{
			Score: MatchedWeight * utf8.RuneCountInString(normQuery),
			Start: utf8.RuneCountInString(normText[:i]),
			Len:   utf8.RuneCountInString(normQuery),
		}, true
	}

	q := []rune(normQuery)
	t := []rune(normText)
	qn := len(q)

	var best Match
	found := false
	consider := func(m Match) {
		if !found || m.Score > best.Score || (m.Score == best.Score && m.Start < best.Start) {
			best = m
			found = true
		}
	}

	// Single substitution: window of the query's own length.
	if qn >= 2 {
		for i := 0; i+qn <= len(t); i++ {
			pos := hammingOne(q, t[i:i+qn])
			if pos == 0 {
				continue
			}
			consider(Match{
				Score: MatchedWeight*(qn-1) - replacePenalty(pos),
				Start: i,
				Len:   qn,
			})
		}
	}

	// One extra rune in the query: window one shorter.
	if qn >= 2 {
		w := qn - 1
		for i := 0; i+w <= len(t); i++ {
			pos := oneExtraInQuery(q, t[i:i+w])
			if pos == 0 {
				continue
			}
			consider(Match{
				Score: MatchedWeight*w - gapPenalty(pos),
				Start: i,
				Len:   w,
			})
		}
	}

	// One missing rune in the query: window one longer.
	if len(t) >= qn+1 {
		w := qn + 1
		for i := 0; i+w <= len(t); i++ {
			pos := oneMissingInQuery(q, t[i:i+w])
			if pos == 0 {
				continue
			}
			consider(Match{
				Score: MatchedWeight*qn - gapPenalty(pos),
				Start: i,
				Len:   w,
			})
		}
	}

	return best, found
}

// hammingOne returns the 1-based position of the single differing rune
// between two equal-length slices, or 0 when they are identical or differ in
// more than one place.
func hammingOne(q, win []rune) int {
	pos := 0
	for i := range q {
		if q[i] != win[i] {
			if pos != 0 {
				return 0
			}
			pos = i + 1
		}
	}
	return pos
}

// oneExtraInQuery returns the 1-based position in q of the one rune that has
// no counterpart in win (len(q) == len(win)+1), or 0 when the alignment
// needs more than dropping a single rune.
func oneExtraInQuery(q, win []rune) int {
	i, j, pos := 0, 0, 0
	for i < len(q) && j < len(win) {
		if q[i] == win[j] {
			i++
			j++
			continue
		}
		if pos != 0 {
			return 0
		}
		pos = i + 1
		i++
	}
	if pos == 0 {
		pos = len(q)
	}
	return pos
}

// oneMissingInQuery returns the 1-based position in q where a rune of win is
// absent (len(win) == len(q)+1), or 0 when more than one rune is missing.
func oneMissingInQuery(q, win []rune) int {
	i, j, pos := 0, 0, 0
	for i < len(q) && j < len(win) {
		if q[i] == win[j] {
			i++
			j++
			continue
		}
		if pos != 0 {
			return 0
		}
		pos = i + 1
		j++
	}
	if pos == 0 {
		pos = len(q) + 1
	}
	return pos
}
