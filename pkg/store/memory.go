package store

import (
	"sync"

	"github.com/sentserve/sentserve/pkg/corpus"
)

// Memory is a map-backed Store, useful for tests and ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	rows map[uint32]*corpus.Sentence
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[uint32]*corpus.Sentence)}
}

func (m *Memory) Put(s *corpus.Sentence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = s
	return nil
}

func (m *Memory) BulkPut(items []*corpus.Sentence) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range items {
		m.rows[s.ID] = s
	}
	return len(items), nil
}

func (m *Memory) Get(id uint32) (*corpus.Sentence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Memory) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *Memory) Delete(id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[uint32]*corpus.Sentence)
	return nil
}
