package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
	seq  uint64
}

type memoryEntry struct {
	doc Document
	seq uint64 // insertion order, breaks CreatedAt ties
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryEntry)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, doc Document) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	doc = prepare(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.docs[doc.ID] = memoryEntry{doc: doc, seq: s.seq}
	return doc, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[id]
	if !ok {
		return Document{}, notFound(id)
	}
	return e.doc, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, sessionID string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var entries []memoryEntry
	for _, e := range s.docs {
		if e.doc.SessionID == sessionID {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b memoryEntry) int {
		if c := b.doc.CreatedAt.Compare(a.doc.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	out := make([]Document, 0, min(len(entries), listLimit(limit)))
	for _, e := range entries[:min(len(entries), listLimit(limit))] {
		out = append(out, e.doc)
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return notFound(id)
	}
	delete(s.docs, id)
	return nil
}

// DeleteSession implements Store.
func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.docs {
		if e.doc.SessionID == sessionID {
			delete(s.docs, id)
			n++
		}
	}
	return n, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
