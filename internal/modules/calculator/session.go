package calculator

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
)

// Sessions holds the live carts, one per calculator session. Each cart
// is driven by a single user; the registry itself may be hit by many.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*Cart)}
}

// Create opens a new empty session on the default services catalog.
func (s *Sessions) Create() (string, *Cart) {
	id := uuid.NewString()
	cart := NewCart(catalog.CatalogServices)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[id] = cart
	return id, cart
}

// Get returns the cart for a session id.
func (s *Sessions) Get(id string) (*Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[id]
	return cart, ok
}

// Drop discards an abandoned session. In-memory state only; there is no
// persisted partial order to clean up.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}
