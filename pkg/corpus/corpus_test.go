package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssignsDenseIDs(t *testing.T) {
	raws := []Raw{
		{Text: "Hello, World!", Source: "a.txt", Offset: 0},
		{Text: "!!!", Source: "a.txt", Offset: 14},
		{Text: "second sentence", Source: "b.txt", Offset: 0},
		{Text: "   ", Source: "b.txt", Offset: 16},
		{Text: "third one", Source: "b.txt", Offset: 20},
	}

	c, skipped := Build(raws)

	assert.Equal(t, 2, skipped, "empty-normalized entries are dropped, not fatal")
	require.Equal(t, 3, c.Len())
	for i, s := range c.Sentences() {
		assert.Equal(t, uint32(i), s.ID, "ids must be dense in input order")
		assert.NotEmpty(t, s.Norm, "no sentence may carry an empty normalized form")
	}

	first := c.Sentence(0)
	require.NotNil(t, first)
	assert.Equal(t, "Hello, World!", first.Raw)
	assert.Equal(t, "hello world", first.Norm)
	assert.Equal(t, "a.txt", first.Source)
	assert.Equal(t, 0, first.Offset)

	// The skipped entries must not shift provenance of survivors.
	third := c.Sentence(2)
	require.NotNil(t, third)
	assert.Equal(t, "third one", third.Raw)
	assert.Equal(t, 20, third.Offset)
}

func TestBuildEmptyInput(t *testing.T) {
	c, skipped := Build(nil)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Sentence(0))
}

func TestFromSentences(t *testing.T) {
	sentences := []*Sentence{
		{ID: 0, Raw: "a", Norm: "a", Source: "s", Offset: 0},
		{ID: 1, Raw: "b", Norm: "b", Source: "s", Offset: 2},
	}
	c := FromSentences(sentences)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "b", c.Sentence(1).Raw)
}
