package sessionkv

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	pairs map[string]string
}

// NewMemory returns an in-process Store. Useful when no Redis is configured.
func NewMemory() Store {
	return &memoryStore{
		pairs: map[string]string{},
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pairs[key], nil
}

func (s *memoryStore) SetAll(_ context.Context, pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, val := range pairs {
		s.pairs[key] = val
	}

	return nil
}

func (s *memoryStore) DeleteAll(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.pairs, key)
	}

	return nil
}
