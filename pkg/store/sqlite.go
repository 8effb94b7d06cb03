package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sentserve/sentserve/pkg/corpus"
)

const schema = `
CREATE TABLE IF NOT EXISTS sentences (
  id         INTEGER PRIMARY KEY,
  raw        TEXT NOT NULL,
  norm       TEXT NOT NULL,
  source     TEXT NOT NULL,
  off        INTEGER NOT NULL
);
`

// SQLite is a durable Store backed by a single SQLite file. The driver is
// pure Go (modernc.org/sqlite), so no cgo is involved.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// WAL keeps concurrent readers cheap; SQLite wants a single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(sent *corpus.Sentence) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO sentences(id, raw, norm, source, off) VALUES (?,?,?,?,?)",
		sent.ID, sent.Raw, sent.Norm, sent.Source, sent.Offset,
	)
	return err
}

func (s *SQLite) BulkPut(items []*corpus.Sentence) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO sentences(id, raw, norm, source, off) VALUES (?,?,?,?,?)")
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	defer stmt.Close()
	for i, sent := range items {
		if _, err := stmt.Exec(sent.ID, sent.Raw, sent.Norm, sent.Source, sent.Offset); err != nil {
			_ = tx.Rollback()
			return i, err
		}
	}
	return len(items), tx.Commit()
}

func (s *SQLite) Get(id uint32) (*corpus.Sentence, error) {
	row := s.db.QueryRow(
		"SELECT id, raw, norm, source, off FROM sentences WHERE id = ?", id)
	sent := &corpus.Sentence{}
	err := row.Scan(&sent.ID, &sent.Raw, &sent.Norm, &sent.Source, &sent.Offset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sent, nil
}

func (s *SQLite) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sentences").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLite) Delete(id uint32) error {
	_, err := s.db.Exec("DELETE FROM sentences WHERE id = ?", id)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
