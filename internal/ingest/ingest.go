// Package ingest discovers and reads corpus text files, turning them into
// raw sentences for the engine to build from. Text is assumed UTF-8; there
// is no encoding detection here. Offsets handed to the corpus are byte
// offsets of each sentence start within its source file.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sentserve/sentserve/pkg/corpus"
)

// Unit selects how file content is cut into sentences.
type Unit string

const (
	// UnitLine treats every line as one sentence.
	UnitLine Unit = "line"
	// UnitParagraph joins consecutive non-empty lines into one sentence.
	UnitParagraph Unit = "paragraph"
	// UnitWindow slides a fixed-size line window with a fixed step.
	UnitWindow Unit = "window"
)

// Options tunes discovery and sentence cutting.
type Options struct {
	Unit       Unit
	WindowSize int
	WindowStep int
	// Pattern is the doublestar glob matched against paths relative to each
	// root. Defaults to "**/*.txt".
	Pattern string
	// Readers caps concurrent file reads. Defaults to 8.
	Readers int
}

// Stats reports what a load touched. Unreadable files are skipped and
// counted, never fatal.
type Stats struct {
	Files        int
	SkippedFiles int
	Sentences    int
}

// Load walks the given roots, reads every matching file and returns raw
// sentences in deterministic order: roots in argument order, files in
// sorted path order, sentences in file order. That order is what makes
// corpus ids reproducible across runs.
func Load(roots []string, opts Options) ([]corpus.Raw, Stats, error) {
	if len(roots) == 0 {
		return nil, Stats{}, fmt.Errorf("ingest: at least one root is required")
	}
	if opts.Pattern == "" {
		opts.Pattern = "**/*.txt"
	}
	if opts.Unit == "" {
		opts.Unit = UnitLine
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = 3
	}
	if opts.WindowStep <= 0 {
		opts.WindowStep = 1
	}
	if opts.Readers <= 0 {
		opts.Readers = 8
	}

	type task struct {
		abs string
		rel string
	}
	var tasks []task
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("ingest: resolve root %s: %w", root, err)
		}
		matches, err := doublestar.Glob(os.DirFS(abs), opts.Pattern)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("ingest: glob %s under %s: %w", opts.Pattern, root, err)
		}
		sort.Strings(matches)
		for _, rel := range matches {
			tasks = append(tasks, task{abs: filepath.Join(abs, rel), rel: filepath.ToSlash(rel)})
		}
	}

	perFile := make([][]corpus.Raw, len(tasks))
	failed := make([]bool, len(tasks))

	var g errgroup.Group
	g.SetLimit(opts.Readers)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			data, err := os.ReadFile(t.abs)
			if err != nil {
				log.Warnf("ingest: skipping unreadable file %s: %v", t.abs, err)
				failed[i] = true
				return nil
			}
			perFile[i] = cut(string(data), t.rel, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{}
	var raws []corpus.Raw
	for i := range tasks {
		if failed[i] {
			stats.SkippedFiles++
			continue
		}
		stats.Files++
		raws = append(raws, perFile[i]...)
	}
	stats.Sentences = len(raws)
	log.Debugf("ingest: %d files (%d skipped), %d raw sentences", stats.Files, stats.SkippedFiles, stats.Sentences)
	return raws, stats, nil
}

// line is one physical line plus the byte offset of its start in the file.
type line struct {
	text   string
	offset int
}

func splitLines(content string) []line {
	var lines []line
	start := 0
	for i := 0; i <= len(content); i++ {
		if i == len(content) || content[i] == '\n' {
			if i == len(content) && i == start {
				break
			}
			text := strings.TrimSuffix(content[start:i], "\r")
			lines = append(lines, line{text: text, offset: start})
			start = i + 1
		}
	}
	return lines
}

func cut(content, source string, opts Options) []corpus.Raw {
	lines := splitLines(content)
	switch opts.Unit {
	case UnitParagraph:
		return cutParagraphs(lines, source)
	case UnitWindow:
		return cutWindows(lines, source, opts.WindowSize, opts.WindowStep)
	default:
		return cutLineUnits(lines, source)
	}
}

func cutLineUnits(lines []line, source string) []corpus.Raw {
	raws := make([]corpus.Raw, 0, len(lines))
	for _, ln := range lines {
		raws = append(raws, corpus.Raw{Text: ln.text, Source: source, Offset: ln.offset})
	}
	return raws
}

func cutParagraphs(lines []line, source string) []corpus.Raw {
	var raws []corpus.Raw
	var block []string
	blockOffset := 0
	flush := func() {
		if len(block) == 0 {
			return
		}
		raws = append(raws, corpus.Raw{
			Text:   strings.Join(block, "\n"),
			Source: source,
			Offset: blockOffset,
		})
		block = nil
	}
	for _, ln := range lines {
		if strings.TrimSpace(ln.text) == "" {
			flush()
			continue
		}
		if len(block) == 0 {
			blockOffset = ln.offset
		}
		block = append(block, ln.text)
	}
	flush()
	return raws
}

func cutWindows(lines []line, source string, size, step int) []corpus.Raw {
	var raws []corpus.Raw
	for i := 0; i+size <= len(lines); i += step {
		parts := make([]string, 0, size)
		for _, ln := range lines[i : i+size] {
			parts = append(parts, ln.text)
		}
		raws = append(raws, corpus.Raw{
			Text:   strings.Join(parts, "\n"),
			Source: source,
			Offset: lines[i].offset,
		})
	}
	return raws
}
