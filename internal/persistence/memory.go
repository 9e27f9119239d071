package persistence

import (
	"context"
	"sync"
)

// MemoryStore is an in-process CollectionStore used for tests and for
// running without external dependencies.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return cp, true, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, payload []byte) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = cp
	return nil
}

// Seed pre-populates a key, bypassing the Save copy path. Test helper.
func (s *MemoryStore) Seed(key string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = payload
}
