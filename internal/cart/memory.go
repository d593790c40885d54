package cart

import (
	"context"
	"sync"
	"time"
)

type memoryCart struct {
	items   map[uint]int
	touched time.Time
}

// MemoryStore is an in-process Store. Carts expire ttl after their last
// write; a zero ttl keeps them forever.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*memoryCart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

// lookup returns the live cart of the session. Callers hold s.mu.
func (s *MemoryStore) lookup(sessionID string) *memoryCart {
	c, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.now().Sub(c.touched) > s.ttl {
		delete(s.carts, sessionID)
		return nil
	}
	return c
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make(map[uint]int)
	if c := s.lookup(sessionID); c != nil {
		for id, qty := range c.items {
			items[id] = qty
		}
	}
	return items, nil
}

func (s *MemoryStore) Add(_ context.Context, sessionID string, productID uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(sessionID)
	if c == nil {
		c = &memoryCart{items: make(map[uint]int)}
		s.carts[sessionID] = c
	}
	c.items[productID] += quantity
	c.touched = s.now()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID string, productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.lookup(sessionID); c != nil {
		delete(c.items, productID)
		c.touched = s.now()
	}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, sessionID string) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make(map[uint]int)
	if c := s.lookup(sessionID); c != nil {
		items = c.items
		delete(s.carts, sessionID)
	}
	return items, nil
}

func (s *MemoryStore) Restore(_ context.Context, sessionID string, items map[uint]int) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.lookup(sessionID)
	if c == nil {
		c = &memoryCart{items: make(map[uint]int, len(items))}
		s.carts[sessionID] = c
	}
	for id, qty := range items {
		c.items[id] += qty
	}
	c.touched = s.now()
	return nil
}
