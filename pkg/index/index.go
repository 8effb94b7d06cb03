// Package index implements the inverted n-gram index used to prune
// candidates before scoring. It maps every n-gram of a sentence's normalized
// text to the set of sentence ids containing it, so any sentence matching a
// query must appear under at least one of the query's grams. The index is a
// pure accelerator: enabling it never changes ranked results, only how many
// sentences get scored.
package index

import (
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/sentserve/sentserve/pkg/corpus"
	"github.com/sentserve/sentserve/pkg/normalize"
)

// Index is an inverted mapping from n-gram to a sorted posting list of
// sentence ids. Postings live in a patricia trie keyed by the gram bytes.
// Built once, read-only afterward.
type Index struct {
	gram int
	trie *patricia.Trie
}

// Build slides a window of length gram (step 1) over every sentence's
// normalized text and registers the sentence id under each distinct gram.
func Build(c *corpus.Corpus, gram int) *Index {
	idx := &Index{gram: gram, trie: patricia.NewTrie()}
	for _, s := range c.Sentences() {
		for _, g := range normalize.Grams(s.Norm, gram) {
			idx.insert(g, s.ID)
		}
	}
	log.Debugf("index built: gram=%d sentences=%d", gram, c.Len())
	return idx
}

// FromPostings rebuilds an Index from a snapshot's gram -> ids mapping.
// Posting lists are sorted defensively; the snapshot writer already sorts.
func FromPostings(postings map[string][]uint32, gram int) *Index {
	idx := &Index{gram: gram, trie: patricia.NewTrie()}
	for g, ids := range postings {
		sorted := make([]uint32, len(ids))
		copy(sorted, ids)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		idx.trie.Set(patricia.Prefix(g), sorted)
	}
	return idx
}

func (idx *Index) insert(gram string, id uint32) {
	key := patricia.Prefix(gram)
	if item := idx.trie.Get(key); item != nil {
		ids := item.([]uint32)
		// Ids arrive in ascending order during build, so dupes are adjacent.
		if len(ids) > 0 && ids[len(ids)-1] == id {
			return
		}
		idx.trie.Set(key, append(ids, id))
		return
	}
	idx.trie.Set(key, []uint32{id})
}

// Gram returns the configured n-gram length.
func (idx *Index) Gram() int { return idx.gram }

// Candidates returns the ids of sentences that may match the normalized
// query. Short queries cannot be pruned soundly, so all=true is returned
// and the caller must fall back to a full scan: one tolerated edit can wipe
// out every shared gram of a short query, and only a query long enough to
// keep an untouched run of gram runes on one side of any edit is safe to
// prune. For longer queries the result is the union of the posting lists of
// the query's grams: union, not intersection, preserves the
// no-false-negative guarantee for matches that only share part of the
// query's grams.
func (idx *Index) Candidates(normQuery string) (ids []uint32, all bool) {
	if utf8.RuneCountInString(normQuery) < 2*idx.gram+1 {
		return nil, true
	}
	grams := normalize.Grams(normQuery, idx.gram)
	if len(grams) == 0 {
		return nil, true
	}
	seen := make(map[uint32]struct{})
	for _, g := range grams {
		item := idx.trie.Get(patricia.Prefix(g))
		if item == nil {
			continue
		}
		for _, id := range item.([]uint32) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, false
}

// Postings exports the full gram -> ids mapping as plain serializable data.
// Derived structure (the trie) is rebuilt on load, never serialized.
func (idx *Index) Postings() map[string][]uint32 {
	out := make(map[string][]uint32)
	_ = idx.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		ids := item.([]uint32)
		cp := make([]uint32, len(ids))
		copy(cp, ids)
		out[string(prefix)] = cp
		return nil
	})
	return out
}

// Grams returns the number of distinct grams registered.
func (idx *Index) Grams() int {
	n := 0
	_ = idx.trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
