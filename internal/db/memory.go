package db

import (
	"context"
	"sync"

	"hotable/internal/domain"
)

type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Restaurant
}

func NewMemoryStore(seed []domain.Restaurant) *MemoryStore {
	items := append([]domain.Restaurant{}, seed...)
	sortByName(items)
	return &MemoryStore{items: items}
}

func (s *MemoryStore) ListRestaurants(_ context.Context) ([]domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Restaurant{}, s.items...), nil
}

func (s *MemoryStore) RestaurantsByCuisine(_ context.Context, cuisine string) ([]domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterByCuisine(s.items, cuisine), nil
}

func (s *MemoryStore) CheckAvailability(_ context.Context, name string) (domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := resolve(s.items, name)
	if !ok {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	return r, nil
}

func (s *MemoryStore) UpdateAvailability(_ context.Context, name string, tables int) (domain.Restaurant, error) {
	if tables < 0 {
		return domain.Restaurant{}, ErrInvalidAvailability
	}
	want := fold(name)
	if want == "" {
		return domain.Restaurant{}, ErrRestaurantNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if fold(s.items[i].Name) == want {
			s.items[i].AvailableTables = tables
			return s.items[i], nil
		}
	}
	return domain.Restaurant{}, ErrRestaurantNotFound
}

func (s *MemoryStore) Close() {}
