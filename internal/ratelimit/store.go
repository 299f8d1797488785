package ratelimit

import (
	"sort"
	"sync"
	"time"
)

// Store keeps the request timestamps of every user. It starts empty and lives as long
// as the process; swap it out in tests for isolated state.
type Store interface {
	Get(key string) []time.Time
	Set(key string, timestamps []time.Time)
	Delete(key string)
	Keys() []string
}

type MemoryStore struct {
	mu      sync.RWMutex
	windows map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string][]time.Time)}
}

// Get returns a copy so callers can filter it freely.
func (s *MemoryStore) Get(key string) []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.windows[key]
	out := make([]time.Time, len(src))
	copy(out, src)
	return out
}

func (s *MemoryStore) Set(key string, timestamps []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = timestamps
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.windows))
	for k := range s.windows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
