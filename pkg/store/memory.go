package store

import (
	"context"
	"sync"

	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// MemoryStore keeps encoded documents in a map. Documents are copied on the
// way in and out, so callers never share a graph with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return decode(data)
}

// Put stores a copy of doc.
func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	if err := Check(doc); err != nil {
		return err
	}
	doc.UpdatedAt = now()
	data, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[doc.ID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.docs, id)
	s.mu.Unlock()
	return nil
}

// List returns all document summaries.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.docs))
	for _, data := range s.docs {
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, doc.Summary())
	}
	return sortSummaries(out), nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
