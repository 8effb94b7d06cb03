// Package store provides CRUD access to corpus sentences behind a small
// interface so the engine never depends on a concrete backend. Two
// implementations ship: an in-memory map for ephemeral runs and tests, and a
// SQLite-backed store for durable corpora.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sentserve/sentserve/pkg/corpus"
)

// ErrNotFound is returned when a requested sentence id doesn't exist.
var ErrNotFound = errors.New("sentence not found")

// Store is the sentence CRUD contract. Implementations must be safe for
// concurrent readers once the corpus is seeded; the engine never writes
// after build.
type Store interface {
	Put(s *corpus.Sentence) error
	BulkPut(items []*corpus.Sentence) (int, error)
	Get(id uint32) (*corpus.Sentence, error)
	Count() (int, error)
	Delete(id uint32) error
	Close() error
}

// Open creates a Store from a DSN-like string:
//
//	memory://                in-memory store
//	sqlite:///path/to/db     SQLite file store
func Open(dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "memory://"):
		return NewMemory(), nil
	case strings.HasPrefix(dsn, "sqlite:///"):
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite:///"))
	}
	return nil, fmt.Errorf("unsupported store DSN: %s", dsn)
}
