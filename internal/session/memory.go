package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemoryStore[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{m: map[string]T{}}
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[id]
	return v, ok, nil
}

func (s *MemoryStore[T]) Put(_ context.Context, id string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[id] = v
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

// Len is the number of live sessions.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Range calls fn for every session until fn returns false. fn must not call
// back into the store.
func (s *MemoryStore[T]) Range(fn func(id string, v T) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, v := range s.m {
		if !fn(id, v) {
			return
		}
	}
}

func (s *MemoryStore[T]) NewID() string {
	return uuid.NewString()
}
