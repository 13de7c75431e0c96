// Package cart holds per-customer pre-order carts in process memory.
// Carts are session-scoped working state: they are never persisted and
// do not survive a restart. Prices are snapshotted at add time.
package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrIndexOutOfRange = errors.New("cart item index out of range")

// Item is a snapshot of a menu item at the moment it was added.
type Item struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
}

// Store keeps one cart per customer ID.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]Item
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID][]Item)}
}

// Add appends an item to the customer's cart.
func (s *Store) Add(customerID uuid.UUID, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[customerID] = append(s.carts[customerID], item)
}

// Remove deletes the item at the given position.
func (s *Store) Remove(customerID uuid.UUID, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[customerID]
	if index < 0 || index >= len(items) {
		return ErrIndexOutOfRange
	}
	s.carts[customerID] = append(items[:index], items[index+1:]...)
	return nil
}

// Items returns a copy of the customer's cart.
func (s *Store) Items(customerID uuid.UUID) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.carts[customerID]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Total is the sum of the cart's snapshot prices.
func (s *Store) Total(customerID uuid.UUID) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, item := range s.carts[customerID] {
		total = total.Add(item.Price)
	}
	return total
}

// Clear empties the customer's cart.
func (s *Store) Clear(customerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
}
