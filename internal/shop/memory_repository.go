package shop

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Shop
}

// NewMemoryRepository constructs an in-memory repository for tests and local runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Shop)}
}

func (r *memoryRepository) Create(_ context.Context, shop Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[shop.ID]; exists {
		return errors.New("shop exists")
	}
	r.storage[shop.ID] = shop
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shop, ok := r.storage[id]
	if !ok {
		return Shop{}, ErrNotFound
	}
	return shop, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Shop
	for _, s := range r.storage {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
