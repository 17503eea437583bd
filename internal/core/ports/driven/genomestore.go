package driven

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// GenomeStore persists genomes and population membership.
type GenomeStore interface {
	// Save stores a genome. An empty ID is replaced with a new one and
	// CreatedAt is set if zero; the genome is updated in place.
	Save(ctx context.Context, genome *domain.Genome) error

	// Get retrieves a genome by ID.
	Get(ctx context.Context, id string) (*domain.Genome, error)

	// SavePopulation records the ordered genome IDs of one generation of a run,
	// replacing any previous membership for that generation.
	SavePopulation(ctx context.Context, runID string, generation int, genomeIDs []string) error

	// GetPopulation returns one generation of a run in position order.
	// Returns domain.ErrNotFound if the generation has no population.
	GetPopulation(ctx context.Context, runID string, generation int) ([]domain.Genome, error)

	// FindGeneration returns the run and the latest generation that contain the genome.
	// Returns domain.ErrNotFound if the genome belongs to no population.
	FindGeneration(ctx context.Context, genomeID string) (runID string, generation int, err error)
}
