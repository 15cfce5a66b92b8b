package catalog

import (
	"context"
	"sync"
	"time"
)

type MemStore struct {
	mu       sync.RWMutex
	products []Product
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Insert(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var max int64
	for _, existing := range s.products {
		if existing.ID > max {
			max = existing.ID
		}
	}
	p.ID = max + 1
	p.CreatedAt = time.Now().UTC()

	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) ListAll(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *MemStore) ListRecent(ctx context.Context, n int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, n)
	for i := len(s.products) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.products[i])
	}
	return out, nil
}

func (s *MemStore) ListByCategory(ctx context.Context, category string, n int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, n)
	for _, p := range s.products {
		if p.Category != category {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
