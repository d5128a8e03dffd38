package resolution

import (
	"context"
	"sort"
	"sync"
)

// Store keeps review state between classifier runs.
type Store interface {
	// Get returns the review for key; ok is false when none is tracked.
	Get(ctx context.Context, key string) (rv Review, ok bool, err error)
	Put(ctx context.Context, rv Review) error
	// List returns every tracked review ordered by key.
	List(ctx context.Context) ([]Review, error)
}

// MemoryStore is an in-process Store used when Redis is unavailable and in
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	reviews map[string]Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reviews: make(map[string]Review)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Review, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rv, ok := s.reviews[key]
	return rv, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, rv Review) error {
	s.mu.Lock()
	s.reviews[rv.Key] = rv
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Review, error) {
	s.mu.RLock()
	out := make([]Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		out = append(out, rv)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
