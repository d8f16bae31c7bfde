package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
)

// Ensure ArchiveStore implements the interface.
var _ driven.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is an in-memory implementation of driven.ArchiveStore.
type ArchiveStore struct {
	mu      sync.RWMutex
	records []domain.ArchiveRecord
}

// NewArchiveStore creates a new in-memory archive store.
func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{}
}

// Record saves a load record.
func (s *ArchiveStore) Record(_ context.Context, rec domain.ArchiveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns all records, newest first.
func (s *ArchiveStore) List(_ context.Context) ([]domain.ArchiveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ArchiveRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		result = append(result, s.records[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LoadedAt.After(result[j].LoadedAt)
	})
	return result, nil
}

// Latest returns the most recent record.
func (s *ArchiveStore) Latest(ctx context.Context) (*domain.ArchiveRecord, error) {
	records, _ := s.List(ctx)
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return &records[0], nil
}

// Close is a no-op for the memory store.
func (s *ArchiveStore) Close() error {
	return nil
}
