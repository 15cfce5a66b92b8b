package account

import (
	"context"
	"sync"
)

// MemStore mirrors the Mongo store for tests and local runs. A single mutex
// serializes cart mutations, giving the same lost-update guarantee the
// document store gets from atomic $inc.
type MemStore struct {
	mu      sync.Mutex
	byID    map[string]Account
	byEmail map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Create(ctx context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[a.Email]; ok {
		return ErrEmailExists
	}

	a.Cart = cloneCart(a.Cart)
	s.byID[a.ID] = a
	s.byEmail[a.Email] = a.ID
	return nil
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}

	a := s.byID[id]
	a.Cart = cloneCart(a.Cart)
	return a, nil
}

func (s *MemStore) FindByID(ctx context.Context, id string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}

	a.Cart = cloneCart(a.Cart)
	return a, nil
}

func (s *MemStore) IncrementItem(ctx context.Context, accountID, itemID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[accountID]
	if !ok {
		return 0, ErrNotFound
	}

	a.Cart[itemID]++
	return a.Cart[itemID], nil
}

func (s *MemStore) DecrementItem(ctx context.Context, accountID, itemID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[accountID]
	if !ok {
		return 0, ErrNotFound
	}

	if a.Cart[itemID] <= 0 {
		return 0, ErrItemNotInCart
	}

	a.Cart[itemID]--
	return a.Cart[itemID], nil
}

func (s *MemStore) Cart(ctx context.Context, accountID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[accountID]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneCart(a.Cart), nil
}

func cloneCart(c Cart) Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
