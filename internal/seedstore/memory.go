package seedstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store, grounded on the teacher's
// infrastructure/storage/memory.go in-memory repository pattern: a mutex
// guarding a plain map, used as the default when no database is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryStore returns an empty in-memory seed store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

// Save records r, assigning it an ID if it doesn't already have one.
func (s *MemoryStore) Save(ctx context.Context, r Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.SpecName] = append(s.records[r.SpecName], r)
	return nil
}

// Recent returns the limit most recently recorded seeds for specName.
func (s *MemoryStore) Recent(ctx context.Context, specName string, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := append([]Record(nil), s.records[specName]...)
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
