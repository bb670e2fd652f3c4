package store

import (
	"context"
	"sync"
)

// MemoryStore holds the record in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, ErrNotFound
	}
	return s.rec.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = r.Clone()
	return nil
}
