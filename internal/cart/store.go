package cart

import (
	"sync"
	"time"
)

// Store holds every live cart in memory, keyed by cart id.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart), now: time.Now}
}

// Get returns a copy of the cart, or an empty cart if none exists yet.
func (s *Store) Get(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[id]; ok {
		return c.Clone()
	}
	return New(id)
}

// Update runs fn against the cart under the store lock. Changes are kept
// only when fn returns nil.
func (s *Store) Update(id string, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[id]
	if !ok {
		current = New(id)
	}
	working := current.Clone()
	if err := fn(working); err != nil {
		return current.Clone(), err
	}
	working.UpdatedAt = s.now()
	s.carts[id] = working
	return working.Clone(), nil
}

// Take removes the cart from the store and hands it to the caller, or
// returns an empty cart if none exists. Only one caller can take a cart.
func (s *Store) Take(id string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return New(id)
	}
	delete(s.carts, id)
	return c
}

// Restore puts back a cart obtained from Take. Lines added to the same id
// since then are kept and merged with the restored ones; a coupon applied
// since then wins over the restored one.
func (s *Store) Restore(c *Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.carts[c.ID]
	if !ok {
		restored := c.Clone()
		restored.UpdatedAt = s.now()
		s.carts[c.ID] = restored
		return
	}
	for _, item := range c.Items {
		if idx := current.find(item.ID); idx >= 0 {
			current.Items[idx].Quantity += item.Quantity
			continue
		}
		current.Items = append(current.Items, item)
	}
	if current.Coupon == nil && c.Coupon != nil {
		coupon := *c.Coupon
		current.Coupon = &coupon
	}
	current.UpdatedAt = s.now()
}

func (s *Store) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

// Sweep evicts carts untouched for longer than idle and returns how many.
func (s *Store) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	removed := 0
	for id, c := range s.carts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
