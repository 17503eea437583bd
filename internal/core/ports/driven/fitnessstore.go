package driven

import (
	"context"

	"github.com/custodia-labs/promptbreeder/internal/core/domain"
)

// FitnessStore persists ratings.
type FitnessStore interface {
	// Add stores a rating. An empty ID is replaced with a new one.
	Add(ctx context.Context, record domain.FitnessRecord) error

	// ListByGeneration returns every rating for one generation of a run,
	// oldest first.
	ListByGeneration(ctx context.Context, runID string, generation int) ([]domain.FitnessRecord, error)

	// ListByGenome returns every rating of a genome across generations.
	ListByGenome(ctx context.Context, genomeID string) ([]domain.FitnessRecord, error)
}
