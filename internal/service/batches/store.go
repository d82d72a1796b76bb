package batches

import (
	"sync"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

// Store holds the authoritative in-memory view of batches for the active farm
// scope, indexed by intake date. Buckets keep insertion order for stable
// display; a batch never moves between buckets (intake dates are immutable).
type Store struct {
	byDate map[string][]models.Batch
	byID   map[string]string // batch id -> date bucket key
	mu     sync.RWMutex
}

// NewStore creates an empty batch store.
func NewStore() *Store {
	return &Store{
		byDate: make(map[string][]models.Batch),
		byID:   make(map[string]string),
	}
}

// Upsert inserts a new batch into its date bucket, or replaces the mutable
// fields of an existing batch with the same id in place.
func (s *Store) Upsert(batch models.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dateKey, exists := s.byID[batch.ID]; exists {
		bucket := s.byDate[dateKey]
		for i := range bucket {
			if bucket[i].ID == batch.ID {
				bucket[i].HatchedCount = batch.HatchedCount
				bucket[i].HatchRate = batch.HatchRate
				return
			}
		}
		return
	}

	dateKey := batch.DateKey()
	s.byDate[dateKey] = append(s.byDate[dateKey], batch)
	s.byID[batch.ID] = dateKey
}

// FindByID returns the batch with the given id, or ErrBatchNotFound.
func (s *Store) FindByID(id string) (models.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dateKey, exists := s.byID[id]
	if !exists {
		return models.Batch{}, models.ErrBatchNotFound
	}

	for _, batch := range s.byDate[dateKey] {
		if batch.ID == id {
			return batch, nil
		}
	}
	return models.Batch{}, models.ErrBatchNotFound
}

// AllByDate returns a copy of the full date-to-batches mapping.
func (s *Store) AllByDate() map[string][]models.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make(map[string][]models.Batch, len(s.byDate))
	for dateKey, bucket := range s.byDate {
		items := make([]models.Batch, len(bucket))
		copy(items, bucket)
		view[dateKey] = items
	}
	return view
}

// ReplaceAll swaps the store contents for a freshly fetched batch list,
// preserving the order the remote returned within each date bucket.
func (s *Store) ReplaceAll(batchList []models.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byDate = make(map[string][]models.Batch, len(batchList))
	s.byID = make(map[string]string, len(batchList))

	for _, batch := range batchList {
		dateKey := batch.DateKey()
		s.byDate[dateKey] = append(s.byDate[dateKey], batch)
		s.byID[batch.ID] = dateKey
	}
}

// Len returns the number of batches currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
