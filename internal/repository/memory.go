package repository

import (
	"context"
	"sync"
)

// MemoryStorage keeps browser storage in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]map[string]string)}
}

func (s *MemoryStorage) Get(_ context.Context, sid, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[sid][key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *MemoryStorage) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[sid]
	if !ok {
		bucket = make(map[string]string)
		s.data[sid] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, sid string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.data[sid]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(bucket, k)
	}
	if len(bucket) == 0 {
		delete(s.data, sid)
	}
	return nil
}

// Keys returns the keys stored for sid.
func (s *MemoryStorage) Keys(sid string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[sid]))
	for k := range s.data[sid] {
		keys = append(keys, k)
	}
	return keys
}
