package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentserve/sentserve/pkg/config"
	"github.com/sentserve/sentserve/pkg/corpus"
	"github.com/sentserve/sentserve/pkg/snapshot"
)

func engineConfig(indexed bool) config.EngineConfig {
	return config.EngineConfig{
		TopK:         5,
		GramSize:     3,
		IndexEnabled: indexed,
		Encoding:     "utf-8",
	}
}

func helloCorpus() []corpus.Raw {
	return []corpus.Raw{
		{Text: "hello world, how are you today?", Source: "a", Offset: 0},
		{Text: "hello world program in python", Source: "b", Offset: 0},
	}
}

func builtEngine(t *testing.T, raws []corpus.Raw, indexed bool) *Engine {
	t.Helper()
	e := NewEngine(engineConfig(indexed), nil)
	require.NoError(t, e.Build(raws))
	return e
}

func TestCompleteExactPrefix(t *testing.T) {
	e := builtEngine(t, helloCorpus(), false)

	results, err := e.Complete("hello wo", 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both are exact matches with equal scores; the tie-break orders the
	// completed sentences lexicographically ("...program" sorts before
	// "..., how" because space precedes comma).
	assert.Equal(t, results[0].Score, results[1].Score)
	assert.Equal(t, "b", results[0].Source)
	assert.Equal(t, "a", results[1].Source)
	assert.Equal(t, "hello world program in python", results[0].Sentence)
	assert.Equal(t, "hello world, how are you today?", results[1].Sentence)
}

func TestCompleteOneEditStillMatches(t *testing.T) {
	e := builtEngine(t, append(helloCorpus(),
		corpus.Raw{Text: "totally unrelated content", Source: "c", Offset: 0}), false)

	exact, err := e.Complete("hello wo", 0)
	require.NoError(t, err)
	require.Len(t, exact, 2)

	edited, err := e.Complete("helo wo", 0)
	require.NoError(t, err)
	require.Len(t, edited, 2, "one-edit tolerance must still find both hello sentences")

	for i, r := range edited {
		assert.Less(t, r.Score, exact[i].Score, "one-edit scores sit strictly below exact scores")
		assert.NotEqual(t, "c", r.Source, "unrelated sentences never rank")
	}
	assert.Equal(t, "b", edited[0].Source)
	assert.Equal(t, "a", edited[1].Source)
}

func TestCompleteEmptyCorpus(t *testing.T) {
	e := builtEngine(t, nil, false)

	results, err := e.Complete("anything at all", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompleteEmptyAfterNormalization(t *testing.T) {
	e := builtEngine(t, helloCorpus(), false)

	for _, q := range []string{"", "!!!", "  ...  ", "?!,"} {
		results, err := e.Complete(q, 0)
		require.NoError(t, err)
		assert.Empty(t, results, "query %q normalizes to empty and must yield no results", q)
	}
}

func TestCompleteDeterministic(t *testing.T) {
	e := builtEngine(t, helloCorpus(), true)

	first, err := e.Complete("hello wo", 0)
	require.NoError(t, err)
	second, err := e.Complete("hello wo", 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompleteRankingInvariants(t *testing.T) {
	raws := []corpus.Raw{
		{Text: "the quick brown fox", Source: "s", Offset: 0},
		{Text: "the quick brown cat", Source: "s", Offset: 20},
		{Text: "the quiet room", Source: "s", Offset: 40},
		{Text: "the quick brown fox", Source: "t", Offset: 0},
	}
	e := builtEngine(t, raws, false)

	results, err := e.Complete("the qui", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for i := 1; i < len(results); i++ {
		prev, cur := results[i-1], results[i]
		assert.GreaterOrEqual(t, prev.Score, cur.Score, "scores must be non-increasing")
		if prev.Score == cur.Score {
			assert.LessOrEqual(t, prev.Sentence, cur.Sentence, "equal scores break ties lexicographically")
		}
	}
}

func TestCompleteRespectsBound(t *testing.T) {
	raws := make([]corpus.Raw, 0, 10)
	for i := 0; i < 10; i++ {
		raws = append(raws, corpus.Raw{Text: "repeat after me", Source: "s", Offset: i * 16})
	}
	e := builtEngine(t, raws, false)

	for _, k := range []int{1, 3, 10, 50} {
		results, err := e.Complete("repeat", k)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), k)
		if k <= 10 {
			assert.Len(t, results, k, "with enough candidates the bound is met exactly")
		}
	}

	// k <= 0 falls back to the configured top_k.
	results, err := e.Complete("repeat", 0)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestIndexNoIndexEquivalence(t *testing.T) {
	raws := []corpus.Raw{
		{Text: "hello world, how are you today?", Source: "a", Offset: 0},
		{Text: "hello world program in python", Source: "b", Offset: 0},
		{Text: "say hello to my little friend", Source: "c", Offset: 0},
		{Text: "the quick brown fox jumps", Source: "d", Offset: 0},
		{Text: "Héllo, wörld!", Source: "e", Offset: 0},
		{Text: "he said it twice", Source: "f", Offset: 0},
	}
	indexed := builtEngine(t, raws, true)
	scanned := builtEngine(t, raws, false)

	// Mix of long queries (pruned), short queries (all sentinel) and
	// one-edit queries; every one must rank identically both ways.
	queries := []string{"hello wo", "helo wo", "he", "h", "say hel", "quick bro", "wörld", "zzz"}
	for _, q := range queries {
		want, err := scanned.Complete(q, 10)
		require.NoError(t, err)
		got, err := indexed.Complete(q, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got, "query %q must rank identically with and without the index", q)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := builtEngine(t, helloCorpus(), true)

	blob, err := original.Snapshot()
	require.NoError(t, err)

	restored := NewEngine(engineConfig(false), nil)
	require.NoError(t, restored.Load(blob))
	assert.Equal(t, 2, restored.Count())
	assert.True(t, restored.Config().IndexEnabled, "snapshot carries the build-time config")

	for _, q := range []string{"hello wo", "helo wo", "he"} {
		want, err := original.Complete(q, 0)
		require.NoError(t, err)
		got, err := restored.Complete(q, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got, "query %q after reload", q)
	}
}

func TestLoadRejectsCorruptSnapshot(t *testing.T) {
	original := builtEngine(t, helloCorpus(), true)
	blob, err := original.Snapshot()
	require.NoError(t, err)

	blob[len(blob)/2] ^= 0xFF

	restored := NewEngine(engineConfig(false), nil)
	err = restored.Load(blob)
	var cerr *snapshot.ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, restored.Ready())
}

func TestLoadRejectsNonDenseIDs(t *testing.T) {
	blob, err := snapshot.Encode(&snapshot.State{
		Gram: 3,
		Sentences: []*corpus.Sentence{
			{ID: 0, Raw: "a", Norm: "a", Source: "s"},
			{ID: 5, Raw: "b", Norm: "b", Source: "s"},
		},
	})
	require.NoError(t, err)

	e := NewEngine(engineConfig(false), nil)
	err = e.Load(blob)
	var cerr *snapshot.ConsistencyError
	require.ErrorAs(t, err, &cerr)
}

func TestCompleteBeforeBuild(t *testing.T) {
	e := NewEngine(engineConfig(false), nil)
	_, err := e.Complete("hello", 0)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.Snapshot()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestEnginesAreIndependent(t *testing.T) {
	a := builtEngine(t, helloCorpus(), false)
	b := builtEngine(t, []corpus.Raw{{Text: "unrelated corpus", Source: "x", Offset: 0}}, false)

	ra, err := a.Complete("hello wo", 0)
	require.NoError(t, err)
	rb, err := b.Complete("hello wo", 0)
	require.NoError(t, err)

	assert.Len(t, ra, 2)
	assert.Empty(t, rb, "engines hold no shared ambient state")
}
