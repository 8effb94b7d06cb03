// Package corpus holds the immutable sentence collection the engine matches
// against. Sentences are normalized once at build time and never mutated.
package corpus

import (
	"github.com/charmbracelet/log"

	"github.com/sentserve/sentserve/pkg/normalize"
)

// Raw is one ingested sentence before normalization, as handed over by the
// loader: the original text, an opaque provenance key (usually a relative
// file path) and the byte offset of the sentence start within that source.
type Raw struct {
	Text   string
	Source string
	Offset int
}

// Sentence is one corpus entry. IDs are dense and assigned in load order.
// Offset is the byte offset of the sentence start within Source.
type Sentence struct {
	ID     uint32 `msgpack:"id"`
	Raw    string `msgpack:"raw"`
	Norm   string `msgpack:"norm"`
	Source string `msgpack:"src"`
	Offset int    `msgpack:"off"`
}

// Corpus is an ordered sentence collection indexed by ID. Insertion order is
// the load order; it carries no ranking significance.
type Corpus struct {
	sentences []*Sentence
}

// Build normalizes raws into a Corpus, dropping entries that normalize to
// the empty string. Bad entries are skipped, never abort the build; the
// second return value is the number of dropped entries.
func Build(raws []Raw) (*Corpus, int) {
	c := &Corpus{sentences: make([]*Sentence, 0, len(raws))}
	skipped := 0
	for _, r := range raws {
		norm := normalize.Normalize(r.Text)
		if norm == "" {
			skipped++
			continue
		}
		c.sentences = append(c.sentences, &Sentence{
			ID:     uint32(len(c.sentences)),
			Raw:    r.Text,
			Norm:   norm,
			Source: r.Source,
			Offset: r.Offset,
		})
	}
	if skipped > 0 {
		log.Debugf("corpus build dropped %d empty-normalized entries", skipped)
	}
	return c, skipped
}

// FromSentences wraps already-normalized sentences, e.g. from a snapshot.
// The slice must already satisfy the dense-ID invariant.
func FromSentences(sentences []*Sentence) *Corpus {
	return &Corpus{sentences: sentences}
}

// Len returns the number of sentences.
func (c *Corpus) Len() int { return len(c.sentences) }

// Sentence returns the sentence with the given dense ID, or nil when out of
// range.
func (c *Corpus) Sentence(id uint32) *Sentence {
	if int(id) >= len(c.sentences) {
		return nil
	}
	return c.sentences[id]
}

// Sentences returns the backing slice in ID order. Callers must treat it as
// read-only.
func (c *Corpus) Sentences() []*Sentence { return c.sentences }
