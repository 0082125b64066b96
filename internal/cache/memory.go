package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	val     []byte
	expires time.Time
}

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = time.Minute

// MemoryStore is an in-process Store used when redis is not configured.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]entry
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

// Set stores val; a non-positive ttl never expires.
func (s *MemoryStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	e := entry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expires = s.now().Add(ttl)
	}
	s.mu.Lock()
	if now := s.now(); now.Sub(s.lastSweep) >= sweepInterval {
		for k, old := range s.items {
			if !old.expires.IsZero() && !now.Before(old.expires) {
				delete(s.items, k)
			}
		}
		s.lastSweep = now
	}
	s.items[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}
