package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// Ensure FitnessStore implements the interface.
var _ driven.FitnessStore = (*FitnessStore)(nil)

// FitnessStore is an in-memory implementation of driven.FitnessStore.
// Records are kept in insertion order.
type FitnessStore struct {
	mu      sync.RWMutex
	records []domain.FitnessRecord
}

// NewFitnessStore creates a new in-memory fitness store.
func NewFitnessStore() *FitnessStore {
	return &FitnessStore{}
}

// Add stores a rating.
func (s *FitnessStore) Add(_ context.Context, record domain.FitnessRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// ListByGeneration returns every rating for one generation of a run.
func (s *FitnessStore) ListByGeneration(_ context.Context, runID string, generation int) ([]domain.FitnessRecord, error) {
	return s.filter(func(r domain.FitnessRecord) bool {
		return r.RunID == runID && r.Generation == generation
	}), nil
}

// ListByGenome returns every rating of a genome.
func (s *FitnessStore) ListByGenome(_ context.Context, genomeID string) ([]domain.FitnessRecord, error) {
	return s.filter(func(r domain.FitnessRecord) bool {
		return r.GenomeID == genomeID
	}), nil
}

func (s *FitnessStore) filter(keep func(domain.FitnessRecord) bool) []domain.FitnessRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.FitnessRecord, 0)
	for _, r := range s.records {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

func (s *FitnessStore) deleteRun(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.RunID != runID {
			kept = append(kept, r)
		}
	}
	s.records = kept
}
