// Package persistence provides DocumentStore implementations: an
// in-memory store for tests, a JSON-file store matching the original
// single-machine layout, and SQLite, Postgres, and Redis backends.
package persistence

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// MemoryStore is an in-memory DocumentStore, safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, collection, userID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, collection, userID string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = map[string][]byte{}
	}
	stored := make([]byte, len(doc))
	copy(stored, doc)
	s.collections[collection][userID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[collection], userID)
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string][]byte, len(s.collections[collection]))
	for userID, doc := range s.collections[collection] {
		out := make([]byte, len(doc))
		copy(out, doc)
		docs[userID] = out
	}
	return docs, nil
}
