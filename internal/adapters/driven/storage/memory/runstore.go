package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
// Deleting a run cascades to the genome and fitness stores it was built with.
type RunStore struct {
	mu      sync.RWMutex
	runs    map[string]domain.Run
	genomes *GenomeStore
	fitness *FitnessStore
}

// NewRunStore creates a new in-memory run store. genomes and fitness may
// be nil when cascading deletes are not needed.
func NewRunStore(genomes *GenomeStore, fitness *FitnessStore) *RunStore {
	return &RunStore{
		runs:    make(map[string]domain.Run),
		genomes: genomes,
		fitness: fitness,
	}
}

// Save stores or updates a run.
func (s *RunStore) Save(_ context.Context, run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &run, nil
}

// List returns all runs, most recently created first.
func (s *RunStore) List(_ context.Context) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a run with its populations and ratings.
func (s *RunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.runs, id)
	s.mu.Unlock()

	if s.genomes != nil {
		s.genomes.deleteRun(id)
	}
	if s.fitness != nil {
		s.fitness.deleteRun(id)
	}
	return nil
}
