package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadLineUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "first line\nsecond line\n")
	writeFile(t, dir, "sub/b.txt", "nested line\r\n")
	writeFile(t, dir, "ignored.md", "not a txt file\n")

	raws, stats, err := Load([]string{dir}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 0, stats.SkippedFiles)
	require.Equal(t, 3, stats.Sentences)

	// Sorted path order, file order within: a.txt before sub/b.txt.
	assert.Equal(t, "first line", raws[0].Text)
	assert.Equal(t, "a.txt", raws[0].Source)
	assert.Equal(t, 0, raws[0].Offset)

	assert.Equal(t, "second line", raws[1].Text)
	assert.Equal(t, 11, raws[1].Offset, "offset is the byte position of the line start")

	assert.Equal(t, "nested line", raws[2].Text, "CR is stripped from CRLF files")
	assert.Equal(t, "sub/b.txt", raws[2].Source)
}

func TestLoadParagraphUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "para one line one\npara one line two\n\npara two\n")

	raws, _, err := Load([]string{dir}, Options{Unit: UnitParagraph})
	require.NoError(t, err)

	require.Len(t, raws, 2)
	assert.Equal(t, "para one line one\npara one line two", raws[0].Text)
	assert.Equal(t, 0, raws[0].Offset)
	assert.Equal(t, "para two", raws[1].Text)
	assert.Equal(t, 37, raws[1].Offset)
}

func TestLoadWindowUnit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "l0\nl1\nl2\nl3\n")

	raws, _, err := Load([]string{dir}, Options{Unit: UnitWindow, WindowSize: 2, WindowStep: 1})
	require.NoError(t, err)

	require.Len(t, raws, 3)
	assert.Equal(t, "l0\nl1", raws[0].Text)
	assert.Equal(t, "l1\nl2", raws[1].Text)
	assert.Equal(t, 3, raws[1].Offset)
	assert.Equal(t, "l2\nl3", raws[2].Text)
}

func TestLoadMultipleRootsKeepArgumentOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, first, "z.txt", "from first root\n")
	writeFile(t, second, "a.txt", "from second root\n")

	raws, stats, err := Load([]string{first, second}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Files)
	require.Len(t, raws, 2)
	assert.Equal(t, "from first root", raws[0].Text, "roots keep argument order even when paths sort differently")
	assert.Equal(t, "from second root", raws[1].Text)
}

func TestLoadNoRoots(t *testing.T) {
	_, _, err := Load(nil, Options{})
	assert.Error(t, err)
}

func TestLoadEmptyRoot(t *testing.T) {
	raws, stats, err := Load([]string{t.TempDir()}, Options{})
	require.NoError(t, err)
	assert.Empty(t, raws)
	assert.Zero(t, stats.Files)
}

func TestLoadDeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.txt", "c\n")
	writeFile(t, dir, "a.txt", "a\n")
	writeFile(t, dir, "b.txt", "b\n")

	// Concurrent reads must not leak scheduling order into sentence order.
	for run := 0; run < 3; run++ {
		raws, _, err := Load([]string{dir}, Options{})
		require.NoError(t, err)
		require.Len(t, raws, 3)
		assert.Equal(t, "a", raws[0].Text)
		assert.Equal(t, "b", raws[1].Text)
		assert.Equal(t, "c", raws[2].Text)
	}
}
