package storage

import (
	"context"
	"sync"

	"github.com/Beigelman/house-crawler/internal/models"
)

// MemoryStore is an in-process Store, used when no database is configured.
type MemoryStore struct {
	mu    sync.Mutex
	order []string
	props map[string]models.Property
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{props: make(map[string]models.Property)}
}

// InsertNew keeps the first record seen for each link.
func (s *MemoryStore) InsertNew(_ context.Context, props []models.Property) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var inserted []models.Property
	for _, p := range props {
		if _, exists := s.props[p.Link]; exists {
			continue
		}
		s.props[p.Link] = p
		s.order = append(s.order, p.Link)
		inserted = append(inserted, p)
	}
	return inserted, nil
}

// All returns the records in insertion order.
func (s *MemoryStore) All(_ context.Context) ([]models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	props := make([]models.Property, 0, len(s.order))
	for _, link := range s.order {
		props = append(props, s.props[link])
	}
	return props, nil
}

// DeleteByLinks removes the given links and reports how many existed.
func (s *MemoryStore) DeleteByLinks(_ context.Context, links []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, link := range links {
		if _, exists := s.props[link]; !exists {
			continue
		}
		delete(s.props, link)
		deleted++
	}
	kept := s.order[:0]
	for _, link := range s.order {
		if _, exists := s.props[link]; exists {
			kept = append(kept, link)
		}
	}
	s.order = kept
	return deleted, nil
}
