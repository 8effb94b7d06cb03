// Package suggest is the core, orchestrating normalization, candidate
// selection, scoring and ranking for sentence completion queries.
package suggest

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/sentserve/sentserve/internal/logger"
	"github.com/sentserve/sentserve/pkg/config"
	"github.com/sentserve/sentserve/pkg/corpus"
	"github.com/sentserve/sentserve/pkg/index"
	"github.com/sentserve/sentserve/pkg/match"
	"github.com/sentserve/sentserve/pkg/normalize"
	"github.com/sentserve/sentserve/pkg/snapshot"
	"github.com/sentserve/sentserve/pkg/store"
)

// ErrNotReady is returned by Complete and Snapshot before a successful
// Build or Load.
var ErrNotReady = errors.New("engine not ready: call Build or Load first")

// Result is one ranked completion. Sentence is the full raw sentence
// containing the match so the caller sees the suggested continuation in
// context; Offset is the byte offset of the sentence start within Source.
type Result struct {
	Score    int    `msgpack:"score"`
	Sentence string `msgpack:"sentence"`
	Source   string `msgpack:"source"`
	Offset   int    `msgpack:"offset"`
}

// Engine holds one built completion state: configuration, the sentence
// store and the optional n-gram index. All state is explicit per instance,
// so multiple engines coexist independently. After Build or Load succeeds
// the engine is immutable and any number of goroutines may call Complete
// concurrently; a rebuild means constructing a fresh engine and swapping it
// in, never mutating a live one.
type Engine struct {
	cfg   config.EngineConfig
	store store.Store
	idx   *index.Index
	count int
	ready bool
	log   *log.Logger
}

// NewEngine creates an engine with the given configuration and sentence
// store. A nil store falls back to the in-memory implementation.
func NewEngine(cfg config.EngineConfig, st store.Store) *Engine {
	if st == nil {
		st = store.NewMemory()
	}
	return &Engine{
		cfg:   cfg,
		store: st,
		log:   logger.New("engine"),
	}
}

// Build constructs the corpus (and index, when enabled) from ingested raw
// sentences. One-shot and blocking: no query is accepted until it returns.
func (e *Engine) Build(raws []corpus.Raw) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	c, skipped := corpus.Build(raws)
	if skipped > 0 {
		e.log.Warnf("build skipped %d entries that normalized to empty", skipped)
	}
	if _, err := e.store.BulkPut(c.Sentences()); err != nil {
		return fmt.Errorf("seed sentence store: %w", err)
	}
	if e.cfg.IndexEnabled {
		e.idx = index.Build(c, e.cfg.GramSize)
		e.log.Debugf("index enabled: %d grams over %d sentences", e.idx.Grams(), c.Len())
	}
	e.count = c.Len()
	e.ready = true
	e.log.Infof("build complete: %d sentences", e.count)
	return nil
}

// Load reconstructs the engine from a snapshot previously produced by
// Snapshot, without re-normalizing raw text. A version or checksum mismatch
// surfaces as *snapshot.ConsistencyError.
func (e *Engine) Load(blob []byte) error {
	st, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}
	for i, s := range st.Sentences {
		if int(s.ID) != i {
			return &snapshot.ConsistencyError{
				Reason: fmt.Sprintf("sentence id %d at position %d breaks the dense-id invariant", s.ID, i),
			}
		}
	}
	if _, err := e.store.BulkPut(st.Sentences); err != nil {
		return fmt.Errorf("seed sentence store: %w", err)
	}
	e.cfg.GramSize = st.Gram
	e.cfg.IndexEnabled = st.Indexed
	if st.Indexed {
		e.idx = index.FromPostings(st.Postings, st.Gram)
	}
	e.count = len(st.Sentences)
	e.ready = true
	e.log.Infof("load complete: %d sentences, indexed=%v", e.count, st.Indexed)
	return nil
}

// Snapshot produces the serializable, data-only engine state for Load.
func (e *Engine) Snapshot() ([]byte, error) {
	if !e.ready {
		return nil, ErrNotReady
	}
	sentences := make([]*corpus.Sentence, 0, e.count)
	for id := 0; id < e.count; id++ {
		s, err := e.store.Get(uint32(id))
		if err != nil {
			return nil, fmt.Errorf("read sentence %d: %w", id, err)
		}
		sentences = append(sentences, s)
	}
	st := &snapshot.State{
		Gram:      e.cfg.GramSize,
		Indexed:   e.idx != nil,
		Sentences: sentences,
	}
	if e.idx != nil {
		st.Postings = e.idx.Postings()
	}
	return snapshot.Encode(st)
}

// Complete returns at most k ranked completions for query. k <= 0 falls
// back to the configured top_k. A query that normalizes to the empty string
// yields an empty result list, as does an empty corpus; neither is an error.
func (e *Engine) Complete(query string, k int) ([]Result, error) {
	if !e.ready {
		return nil, ErrNotReady
	}
	if k <= 0 {
		k = e.cfg.TopK
	}
	norm := normalize.Normalize(query)
	if norm == "" {
		return []Result{}, nil
	}

	results := make([]Result, 0, 32)
	score := func(id uint32) {
		s, err := e.store.Get(id)
		if err != nil {
			e.log.Errorf("candidate %d unreadable: %v", id, err)
			return
		}
		m, ok := match.Best(norm, s.Norm)
		if !ok {
			return
		}
		results = append(results, Result{
			Score:    m.Score,
			Sentence: s.Raw,
			Source:   s.Source,
			Offset:   s.Offset,
		})
	}

	if e.idx != nil {
		ids, all := e.idx.Candidates(norm)
		if all {
			// Query too short to prune soundly: scan everything instead of
			// dropping candidates.
			for id := 0; id < e.count; id++ {
				score(uint32(id))
			}
		} else {
			for _, id := range ids {
				score(id)
			}
		}
	} else {
		for id := 0; id < e.count; id++ {
			score(uint32(id))
		}
	}

	return rank(results, k), nil
}

// Count returns the number of sentences in the built corpus.
func (e *Engine) Count() int { return e.count }

// Ready reports whether Build or Load has completed.
func (e *Engine) Ready() bool { return e.ready }

// Config returns the engine configuration in effect.
func (e *Engine) Config() config.EngineConfig { return e.cfg }

// Close releases the underlying store.
func (e *Engine) Close() error {
	e.ready = false
	return e.store.Close()
}
