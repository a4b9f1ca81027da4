package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

// JSONStore persists each collection as one JSON file in the data
// directory, mapping user id to document. Every write rewrites the whole
// file through a temp-file rename, so a crash never leaves a partially
// written collection. Writes are last-writer-wins at file granularity.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore creates a JSON-file store rooted at dir, creating the
// directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Get(_ context.Context, collection, userID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (s *JSONStore) Put(_ context.Context, collection, userID string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return err
	}
	docs[userID] = json.RawMessage(doc)
	return s.write(collection, docs)
}

func (s *JSONStore) Delete(_ context.Context, collection, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return err
	}
	if _, ok := docs[userID]; !ok {
		return nil
	}
	delete(docs, userID)
	return s.write(collection, docs)
}

func (s *JSONStore) List(_ context.Context, collection string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(docs))
	for userID, doc := range docs {
		out[userID] = doc
	}
	return out, nil
}

func (s *JSONStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *JSONStore) read(collection string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", collection, err)
	}

	docs := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("decode collection %s: %w", collection, err)
		}
	}
	return docs, nil
}

// write rewrites the collection file atomically.
func (s *JSONStore) write(collection string, docs map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace collection %s: %w", collection, err)
	}
	return nil
}
