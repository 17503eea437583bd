package evolution

import (
	"fmt"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// Manager builds and evolves populations under one configuration.
// A Manager is not safe for concurrent use; its RandomSource is shared by
// every call.
type Manager struct {
	cfg     domain.EvolutionConfig
	rng     RandomSource
	mutator *Mutator
}

// NewManager creates a manager. The configuration is validated here and
// never again during evolution.
func NewManager(cfg domain.EvolutionConfig, rng RandomSource) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mutator, err := NewMutator(rng, cfg.MutationRate, cfg.CrossoverRate)
	if err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, rng: rng, mutator: mutator}, nil
}

// Config returns the manager's configuration.
func (m *Manager) Config() domain.EvolutionConfig {
	return m.cfg
}

// Mutator returns the mutator sharing this manager's random source.
func (m *Manager) Mutator() *Mutator {
	return m.mutator
}

// Initialize builds generation 0 at the configured population size.
func (m *Manager) Initialize(base string) ([]domain.Genome, error) {
	return m.InitializeN(base, m.cfg.PopulationSize)
}

// InitializeN builds n independent initial-mode variants of base.
// Duplicates are possible.
func (m *Manager) InitializeN(base string, n int) ([]domain.Genome, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: population size must be > 0, got %d", domain.ErrInvalidConfiguration, n)
	}
	population := make([]domain.Genome, 0, n)
	for i := range n {
		content, err := m.mutator.Mutate(base, ModeInitial)
		if err != nil {
			return nil, fmt.Errorf("initialize variant %d: %w", i, err)
		}
		population = append(population, domain.Genome{
			Content: content,
			Metadata: map[string]any{
				domain.MetaSource:    domain.SourceInitial,
				domain.MetaVariantID: i,
			},
		})
	}
	return population, nil
}

// Evolve produces the next generation from population and the complete set
// of fitness records for it.
//
// The top floor(size/2) ranked genomes form the selection pool. The best
// max(1, floor(size/5)) of the pool are carried over unchanged; the
// remaining slots are children of two parents drawn uniformly with
// replacement from the pool. The result always has the configured size.
func (m *Manager) Evolve(population []domain.Genome, records []domain.FitnessRecord) ([]domain.Genome, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: population is empty", domain.ErrInvalidPopulation)
	}

	ranked := Rank(population, records)
	poolSize := min(m.cfg.SelectionPoolSize(), len(ranked))
	if poolSize == 0 {
		return nil, fmt.Errorf("%w: selection pool is empty for population size %d",
			domain.ErrInvalidPopulation, m.cfg.PopulationSize)
	}
	pool := make([]domain.Genome, poolSize)
	for i := range pool {
		pool[i] = ranked[i].Genome
	}

	size := m.cfg.PopulationSize
	next := make([]domain.Genome, 0, size)
	for i := range min(m.cfg.EliteCount(), poolSize) {
		next = append(next, pool[i].Clone())
	}

	for len(next) < size {
		i, j := m.rng.Intn(poolSize), m.rng.Intn(poolSize)
		child, err := m.breed(pool, i, j)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}
	return next, nil
}

// breed makes one offspring from pool[i] and pool[j] and gives it one
// evolutionary mutation pass.
func (m *Manager) breed(pool []domain.Genome, i, j int) (domain.Genome, error) {
	a, b := pool[i], pool[j]

	var child domain.Genome
	if sameGenome(a, b, i, j) {
		child = copyOf(a)
	} else {
		res := m.mutator.Crossover(a.Content, b.Content)
		switch {
		case res.Recombined:
			child = domain.Genome{
				Content:  res.Content,
				ParentID: a.ID,
				Metadata: map[string]any{
					domain.MetaSource:    domain.SourceCrossover,
					domain.MetaParent1ID: a.ID,
					domain.MetaParent2ID: b.ID,
				},
			}
		case res.FromSecond:
			child = copyOf(b)
		default:
			child = copyOf(a)
		}
	}

	content, err := m.mutator.Mutate(child.Content, ModeEvolutionary)
	if err != nil {
		return domain.Genome{}, fmt.Errorf("mutate offspring: %w", err)
	}
	child.Content = content
	return child, nil
}

// sameGenome compares by ID when both genomes have one, else by pool slot.
func sameGenome(a, b domain.Genome, i, j int) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return i == j
}

// copyOf starts a single-parent offspring of p.
func copyOf(p domain.Genome) domain.Genome {
	return domain.Genome{
		Content:  p.Content,
		ParentID: p.ID,
		Metadata: map[string]any{
			domain.MetaSource:   domain.SourceMutation,
			domain.MetaParentID: p.ID,
		},
	}
}
