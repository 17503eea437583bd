package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

// Ensure GenomeStore implements the interface.
var _ driven.GenomeStore = (*GenomeStore)(nil)

type populationKey struct {
	runID      string
	generation int
}

// GenomeStore is an in-memory implementation of driven.GenomeStore.
type GenomeStore struct {
	mu          sync.RWMutex
	genomes     map[string]domain.Genome
	populations map[populationKey][]string
}

// NewGenomeStore creates a new in-memory genome store.
func NewGenomeStore() *GenomeStore {
	return &GenomeStore{
		genomes:     make(map[string]domain.Genome),
		populations: make(map[populationKey][]string),
	}
}

// Save stores a genome, assigning an ID and creation time when missing.
// Genomes are immutable once stored; saving an existing ID is a no-op.
func (s *GenomeStore) Save(_ context.Context, genome *domain.Genome) error {
	if genome.ID == "" {
		genome.ID = uuid.New().String()
	}
	if genome.CreatedAt.IsZero() {
		genome.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.genomes[genome.ID]; exists {
		return nil
	}
	s.genomes[genome.ID] = genome.Clone()
	return nil
}

// Get retrieves a genome by ID.
func (s *GenomeStore) Get(_ context.Context, id string) (*domain.Genome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	genome, ok := s.genomes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := genome.Clone()
	return &out, nil
}

// SavePopulation records the ordered membership of one generation.
func (s *GenomeStore) SavePopulation(_ context.Context, runID string, generation int, genomeIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range genomeIDs {
		if _, ok := s.genomes[id]; !ok {
			return domain.ErrNotFound
		}
	}
	s.populations[populationKey{runID, generation}] = append([]string(nil), genomeIDs...)
	return nil
}

// GetPopulation returns one generation in position order.
func (s *GenomeStore) GetPopulation(_ context.Context, runID string, generation int) ([]domain.Genome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.populations[populationKey{runID, generation}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	result := make([]domain.Genome, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.genomes[id].Clone())
	}
	return result, nil
}

// FindGeneration returns the run and the latest generation containing the genome.
func (s *GenomeStore) FindGeneration(_ context.Context, genomeID string) (string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]populationKey, 0)
	for key, ids := range s.populations {
		for _, id := range ids {
			if id == genomeID {
				keys = append(keys, key)
				break
			}
		}
	}
	if len(keys) == 0 {
		return "", 0, domain.ErrNotFound
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].generation == keys[j].generation {
			return keys[i].runID < keys[j].runID
		}
		return keys[i].generation > keys[j].generation
	})
	return keys[0].runID, keys[0].generation, nil
}

// deleteRun drops the run's populations and every genome no other
// population still references.
func (s *GenomeStore) deleteRun(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make(map[string]struct{})
	for key, ids := range s.populations {
		if key.runID != runID {
			continue
		}
		for _, id := range ids {
			members[id] = struct{}{}
		}
		delete(s.populations, key)
	}
	for _, ids := range s.populations {
		for _, id := range ids {
			delete(members, id)
		}
	}
	for id := range members {
		delete(s.genomes, id)
	}
}
